package dto

import "github.com/noah-isme/ta-proctoring-api/internal/models"

// Status values carried by list responses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CandidateTA is one row of the candidate list for an exam.
type CandidateTA struct {
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Workload        float64        `json:"workload"`
	Program         models.Program `json:"program"`
	Department      string         `json:"department"`
	Assignable      bool           `json:"assignable"`
	Reason          string         `json:"reason,omitempty"`
	Penalty         *float64       `json:"penalty,omitempty"`
	AlreadyAssigned bool           `json:"already_assigned,omitempty"`
}

// CandidateListResponse lists every active TA evaluated for an exam.
type CandidateListResponse struct {
	Status string        `json:"status"`
	TAs    []CandidateTA `json:"tas"`
}

// AutomaticAssignmentResponse carries the chosen proctors. Committed is set
// when the choice was persisted.
type AutomaticAssignmentResponse struct {
	Success      bool                `json:"success"`
	AssignedTAs  []string            `json:"assigned_tas"`
	OverrideInfo models.OverrideInfo `json:"override_info"`
	Committed    bool                `json:"committed"`
}

// ConfirmAssignmentRequest is the staff-chosen proctor list.
type ConfirmAssignmentRequest struct {
	AssignedTAs []string `json:"assigned_tas" validate:"required,min=1,dive,required,email"`
}

// ConfirmAssignmentResponse acknowledges a committed manual assignment.
type ConfirmAssignmentResponse struct {
	Success      bool                `json:"success"`
	AssignedTAs  []string            `json:"assigned_tas"`
	OverrideInfo models.OverrideInfo `json:"override_info"`
}

// AssignmentHistoryResponse lists persisted assignments newest first.
type AssignmentHistoryResponse struct {
	Status      string              `json:"status"`
	Assignments []models.Assignment `json:"assignments"`
}

// FieldError names the request field that failed validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}
