package models

import "time"

// Program is the graduate program a TA is enrolled in.
type Program string

const (
	ProgramMS  Program = "MS"
	ProgramPhD Program = "PhD"
)

// TAType distinguishes full-time and part-time TAs.
type TAType string

const (
	TATypeFullTime TAType = "FT"
	TATypePartTime TAType = "PT"
)

// TA is a teaching assistant eligible for proctoring duty. Workload is the
// accumulated proctoring hours and is only mutated inside assignment and swap
// transactions.
type TA struct {
	Email      string    `db:"email" json:"email"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Program    Program   `db:"program" json:"program"`
	Department string    `db:"department" json:"department"`
	Workload   float64   `db:"workload" json:"workload"`
	TAType     TAType    `db:"ta_type" json:"ta_type"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// FullName joins first and last name.
func (t TA) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
