package dto

import "github.com/noah-isme/ta-proctoring-api/internal/models"

// SwapCandidate is an assignable replacement for a seat.
type SwapCandidate struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Workload float64 `json:"workload"`
}

// SwapIneligible is a TA that cannot take the seat, with the reason.
type SwapIneligible struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SwapCandidatesResponse is the replacement pool for one seat.
type SwapCandidatesResponse struct {
	Status       string           `json:"status"`
	Assignable   []SwapCandidate  `json:"assignable"`
	Unassignable []SwapIneligible `json:"unassignable"`
}

// SwapRequestPayload asks another TA to take over the caller's seat.
type SwapRequestPayload struct {
	AssignmentID  string `json:"assignment_id" validate:"required"`
	TargetTAEmail string `json:"target_ta_email" validate:"required,email"`
}

// SwapResponsePayload is the target TA's answer to a pending request.
type SwapResponsePayload struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

// StaffSwapPayload moves a seat to another TA immediately.
type StaffSwapPayload struct {
	NewTA string `json:"new_ta" validate:"required,email"`
}

// SwapRecordResponse wraps a single swap record.
type SwapRecordResponse struct {
	Success bool               `json:"success"`
	Swap    models.SwapRequest `json:"swap"`
}

// SwapListResponse lists swap records with their exam schedule.
type SwapListResponse struct {
	Status string              `json:"status"`
	Swaps  []models.SwapDetail `json:"swaps"`
}

// SeatListResponse lists proctoring seats.
type SeatListResponse struct {
	Status string              `json:"status"`
	Seats  []models.SeatDetail `json:"seats"`
}

// DecisionAccept and DecisionReject are the accepted swap decisions.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)
