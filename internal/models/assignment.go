package models

import (
	"time"

	"github.com/lib/pq"
)

// AssignmentMode records how the proctor set was chosen.
type AssignmentMode string

const (
	AssignmentModeAutomatic AssignmentMode = "automatic"
	AssignmentModeManual    AssignmentMode = "manual"
)

// OverrideInfo flags which soft constraints had to be relaxed. It is fixed at
// confirmation time and never recomputed.
type OverrideInfo struct {
	Consecutive bool `db:"consecutive_overridden" json:"consecutive_overridden"`
	MSPhD       bool `db:"ms_phd_overridden" json:"ms_phd_overridden"`
	Department  bool `db:"department_overridden" json:"department_overridden"`
}

// Merge ORs other into o.
func (o OverrideInfo) Merge(other OverrideInfo) OverrideInfo {
	return OverrideInfo{
		Consecutive: o.Consecutive || other.Consecutive,
		MSPhD:       o.MSPhD || other.MSPhD,
		Department:  o.Department || other.Department,
	}
}

// Any reports whether at least one flag is set.
func (o OverrideInfo) Any() bool {
	return o.Consecutive || o.MSPhD || o.Department
}

// Assignment is the confirmed proctor set of an exam.
type Assignment struct {
	ID        string         `db:"id" json:"id"`
	ExamID    string         `db:"exam_id" json:"exam_id"`
	Mode      AssignmentMode `db:"mode" json:"mode"`
	CreatedBy string         `db:"created_by" json:"created_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	OverrideInfo
	Seats []Seat `db:"-" json:"seats"`
}

// Emails returns the seat holders in seat order.
func (a *Assignment) Emails() []string {
	emails := make([]string, 0, len(a.Seats))
	for _, seat := range a.Seats {
		emails = append(emails, seat.TAEmail)
	}
	return emails
}

// Seat is one proctoring position of an exam. Its ID is the assignment_id
// used by the swap endpoints.
type Seat struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"-"`
	ExamID       string    `db:"exam_id" json:"exam_id"`
	TAEmail      string    `db:"ta_email" json:"ta_email"`
	Position     int       `db:"position" json:"position"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SeatDetail joins a seat with its exam and holder for listings.
type SeatDetail struct {
	Seat
	CourseCodes  pq.StringArray `db:"course_codes" json:"course_codes"`
	Department   *string        `db:"department" json:"department,omitempty"`
	ExamDate     time.Time      `db:"exam_date" json:"date"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	TAFirstName  string         `db:"first_name" json:"first_name"`
	TALastName   string         `db:"last_name" json:"last_name"`
	TADepartment string         `db:"ta_department" json:"ta_department"`
}

// SeatFilter constrains seat listings.
type SeatFilter struct {
	Department string
	OrderBy    string
	Limit      int
	Offset     int
}
