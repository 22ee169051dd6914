package matching

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// InsufficientCandidatesError reports that fewer TAs are eligible than the
// exam needs.
type InsufficientCandidatesError struct {
	Needed   int
	Eligible int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("need %d proctors but only %d eligible TAs", e.Needed, e.Eligible)
}

// Selection is a chosen proctor set with its aggregated override flags.
type Selection struct {
	Chosen    []Candidate
	Overrides models.OverrideInfo
}

// Emails returns the chosen TAs in selection order.
func (s Selection) Emails() []string {
	emails := make([]string, 0, len(s.Chosen))
	for _, c := range s.Chosen {
		emails = append(emails, c.TA.Email)
	}
	return emails
}

func newSelection(chosen []Candidate) Selection {
	var overrides models.OverrideInfo
	for _, c := range chosen {
		overrides = overrides.Merge(c.Overrides)
	}
	return Selection{Chosen: chosen, Overrides: overrides}
}

// Better orders candidates: course staff first, then lowest penalty, then
// lowest workload, with the email as a final deterministic tie-break.
func Better(a, b Candidate) bool {
	if a.AlreadyAssigned != b.AlreadyAssigned {
		return a.AlreadyAssigned
	}
	if a.Penalty != b.Penalty {
		return a.Penalty < b.Penalty
	}
	if a.TA.Workload != b.TA.Workload {
		return a.TA.Workload < b.TA.Workload
	}
	return a.TA.Email < b.TA.Email
}

// Rank returns the assignable candidates best first. The input is not
// modified.
func Rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Assignable {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return Better(ranked[i], ranked[j]) })
	return ranked
}

// Select picks the n best assignable candidates. Nothing is selected when
// fewer than n are assignable.
func Select(candidates []Candidate, n int) (Selection, error) {
	if n <= 0 {
		return Selection{}, fmt.Errorf("invalid proctor count %d", n)
	}
	ranked := Rank(candidates)
	if len(ranked) < n {
		return Selection{}, &InsufficientCandidatesError{Needed: n, Eligible: len(ranked)}
	}
	return newSelection(ranked[:n]), nil
}

// Assign evaluates the snapshot and selects the exam's full proctor set.
func (e *Engine) Assign(snap *Snapshot) (Selection, error) {
	candidates, err := e.Evaluate(snap)
	if err != nil {
		return Selection{}, err
	}
	return Select(candidates, snap.Exam.NumProctors)
}

// Errors returned by CheckSelectionShape.
var (
	ErrSelectionCount     = errors.New("selection size does not match required proctors")
	ErrSelectionDuplicate = errors.New("selection contains duplicate TAs")
	ErrSelectionEmpty     = errors.New("selection contains an empty email")
)

// ShapeError carries the field-level detail of a malformed selection.
type ShapeError struct {
	Err   error
	Field string
	Value string
}

func (e *ShapeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Field, e.Err, e.Value)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// CheckSelectionShape validates a staff-chosen list before any eligibility
// work: it must name exactly n distinct TAs.
func CheckSelectionShape(emails []string, n int) error {
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			return &ShapeError{Err: ErrSelectionEmpty, Field: "assigned_tas"}
		}
		if seen[key] {
			return &ShapeError{Err: ErrSelectionDuplicate, Field: "assigned_tas", Value: email}
		}
		seen[key] = true
	}
	if len(emails) != n {
		return &ShapeError{Err: ErrSelectionCount, Field: "assigned_tas", Value: fmt.Sprintf("got %d, need %d", len(emails), n)}
	}
	return nil
}

// Rejection names a chosen TA that failed eligibility.
type Rejection struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ValidateSelection re-derives eligibility for a staff-chosen list. On
// success the selection keeps the order given by staff.
func (e *Engine) ValidateSelection(snap *Snapshot, emails []string) (Selection, []Rejection, error) {
	if err := CheckSelectionShape(emails, snap.Exam.NumProctors); err != nil {
		return Selection{}, nil, err
	}
	candidates, err := e.Evaluate(snap)
	if err != nil {
		return Selection{}, nil, err
	}
	byEmail := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byEmail[strings.ToLower(c.TA.Email)] = c
	}

	chosen := make([]Candidate, 0, len(emails))
	var rejections []Rejection
	for _, email := range emails {
		c, ok := byEmail[strings.ToLower(strings.TrimSpace(email))]
		switch {
		case !ok:
			rejections = append(rejections, Rejection{Email: email, Reason: ReasonUnknownTA})
		case !c.Assignable:
			rejections = append(rejections, Rejection{Email: email, Reason: c.Reason})
		default:
			chosen = append(chosen, c)
		}
	}
	if len(rejections) > 0 {
		return Selection{}, rejections, nil
	}
	return newSelection(chosen), nil, nil
}
