package models

import (
	"time"

	"github.com/lib/pq"
)

// SwapKind tags the two swap lifecycles.
type SwapKind string

const (
	SwapKindPeer  SwapKind = "peer"
	SwapKindStaff SwapKind = "staff"
)

// SwapStatus is the lifecycle state of a swap record. Staff swaps are created
// directly in SwapStatusStaff and never pass through pending.
type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "pending"
	SwapStatusAccepted SwapStatus = "accepted"
	SwapStatusRejected SwapStatus = "rejected"
	SwapStatusStaff    SwapStatus = "staff"
)

// Terminal reports whether no further transition is allowed.
func (s SwapStatus) Terminal() bool {
	return s != SwapStatusPending
}

// SwapRequest records a proposed or executed seat hand-over.
type SwapRequest struct {
	ID               string     `db:"id" json:"id"`
	SeatID           string     `db:"seat_id" json:"assignment_id"`
	ExamID           string     `db:"exam_id" json:"exam_id"`
	Kind             SwapKind   `db:"kind" json:"kind"`
	Status           SwapStatus `db:"status" json:"status"`
	RequestedBy      string     `db:"requested_by" json:"requested_by"`
	RequestedByStaff bool       `db:"requested_by_staff" json:"requested_by_staff"`
	PreviousTA       string     `db:"previous_ta" json:"previous_ta"`
	TargetTA         string     `db:"target_ta" json:"target_ta"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	RespondedAt      *time.Time `db:"responded_at" json:"responded_at,omitempty"`
}

// SwapDetail enriches a swap with its exam schedule for listings.
type SwapDetail struct {
	SwapRequest
	CourseCodes pq.StringArray `db:"course_codes" json:"course_codes"`
	Department  *string        `db:"department" json:"department,omitempty"`
	ExamDate    time.Time      `db:"exam_date" json:"date"`
	StartTime   string         `db:"start_time" json:"start_time"`
	EndTime     string         `db:"end_time" json:"end_time"`
}

// SwapFilter constrains swap listings.
type SwapFilter struct {
	Participant string
	Department  string
	SeatID      string
	Ascending   bool
	Limit       int
	Offset      int
}
