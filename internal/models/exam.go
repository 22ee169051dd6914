package models

import (
	"time"

	"github.com/lib/pq"
)

// ExamKind separates departmental exams from dean-office exams spanning
// several courses.
type ExamKind string

const (
	ExamKindDepartment ExamKind = "DEPARTMENT"
	ExamKindDean       ExamKind = "DEAN"
)

// Exam is a scheduled exam that needs NumProctors proctors.
type Exam struct {
	ID           string         `db:"id" json:"id"`
	Kind         ExamKind       `db:"kind" json:"kind"`
	CourseCodes  pq.StringArray `db:"course_codes" json:"course_codes"`
	Department   *string        `db:"department" json:"department,omitempty"`
	ExamDate     time.Time      `db:"exam_date" json:"date"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	Classrooms   pq.StringArray `db:"classrooms" json:"classrooms"`
	NumProctors  int            `db:"num_proctors" json:"num_proctors"`
	StudentCount int            `db:"student_count" json:"student_count"`
	CreatedAt    time.Time      `db:"created_at" json:"-"`
}

// BookedSeat is a seat held by a TA on some exam, flattened with the exam's
// schedule for conflict checks.
type BookedSeat struct {
	SeatID    string    `db:"seat_id"`
	ExamID    string    `db:"exam_id"`
	TAEmail   string    `db:"ta_email"`
	ExamDate  time.Time `db:"exam_date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
}
