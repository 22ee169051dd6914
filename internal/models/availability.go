package models

import "time"

// LeaveStatus tracks the review state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is a TA's absence over a date/time range.
type LeaveRequest struct {
	ID        string      `db:"id" json:"id"`
	TAEmail   string      `db:"ta_email" json:"ta_email"`
	StartDate time.Time   `db:"start_date" json:"start_date"`
	StartTime string      `db:"start_time" json:"start_time"`
	EndDate   time.Time   `db:"end_date" json:"end_date"`
	EndTime   string      `db:"end_time" json:"end_time"`
	Status    LeaveStatus `db:"status" json:"status"`
	Reason    string      `db:"reason" json:"reason"`
}

// WeeklySlot is a recurring lecture a TA attends, e.g. MON 08:30-10:20.
type WeeklySlot struct {
	ID       string `db:"id" json:"id"`
	TAEmail  string `db:"ta_email" json:"ta_email"`
	Day      string `db:"day" json:"day"`
	TimeSlot string `db:"time_slot" json:"time_slot"`
	Course   string `db:"course" json:"course"`
}

// CourseTA places a TA on a course's staff roster.
type CourseTA struct {
	CourseCode string `db:"course_code" json:"course_code"`
	TAEmail    string `db:"ta_email" json:"ta_email"`
}
