package models

import "time"

// Audit actions recorded for mutating proctoring endpoints.
const (
	AuditActionAutoAssign    = "ASSIGNMENT_AUTOMATIC"
	AuditActionConfirm       = "ASSIGNMENT_CONFIRM"
	AuditActionSwapRequest   = "SWAP_REQUEST"
	AuditActionSwapRespond   = "SWAP_RESPOND"
	AuditActionSwapStaff     = "SWAP_STAFF"
	AuditResourceExam        = "exam"
	AuditResourceSeat        = "seat"
	AuditResourceSwapRequest = "swap_request"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Actor      string    `db:"actor" json:"actor"`
	Role       string    `db:"role" json:"role"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	Status     int       `db:"status" json:"status"`
	LatencyMs  int64     `db:"latency_ms" json:"latency_ms"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
