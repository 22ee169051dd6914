package matching

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// Hard exclusion reasons reported for unassignable TAs.
const (
	ReasonAlreadyAssigned  = "Already assigned to this exam"
	ReasonOnLeave          = "On leave"
	ReasonScheduleConflict = "Schedule conflict"
	ReasonSameDay          = "Same-day proctoring"
	ReasonEnrolled         = "Enrolled in course"
	ReasonLectureConflict  = "Lecture conflict"
	ReasonOverMaxWorkload  = "Over max workload"
	ReasonPendingSwap      = "Already has a pending swap request for this exam"
	ReasonUnknownTA        = "Not an active TA"
	ReasonCurrentHolder    = "Currently holds this seat"
)

// Snapshot is the state the engine evaluates one exam against. Seats must
// include every seat on the exam date and the adjacent days, including the
// exam's own seats.
type Snapshot struct {
	Exam   models.Exam
	TAs    []models.TA
	Seats  []models.BookedSeat
	Leaves []models.LeaveRequest
	Slots  []models.WeeklySlot
	// Roster holds the emails on the course staff of any of the exam's courses.
	Roster map[string]bool
	// PendingTargets holds TAs already asked to take a seat of any exam in
	// this exam's slot.
	PendingTargets map[string]bool
}

// Candidate is the evaluation of one TA for one exam seat.
type Candidate struct {
	TA              models.TA
	Assignable      bool
	Reason          string
	Penalty         float64
	AlreadyAssigned bool
	Overrides       models.OverrideInfo
}

// Email is shorthand for c.TA.Email.
func (c Candidate) Email() string {
	return c.TA.Email
}

type evalOptions struct {
	// replacing is the holder of the seat under swap; the seat is ignored and
	// the holder is left out of the pool.
	replacing string
	swap      bool
}

// taFacts is the per-TA schedule derived from the snapshot.
type taFacts struct {
	holdsSeat   bool
	overlapping bool
	sameDay     bool
	adjacentDay bool
	onLeave     bool
	enrolled    bool
	lecture     bool
}

type examContext struct {
	exam       models.Exam
	window     Window
	hours      float64
	date       time.Time
	weekday    string
	courseKeys map[string]bool
	department string
}

func newExamContext(exam models.Exam) (*examContext, error) {
	window, err := ExamWindow(exam)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(exam.CourseCodes))
	for _, code := range exam.CourseCodes {
		if key := CourseKey(code); key != "" {
			keys[key] = true
		}
	}
	date := CivilDate(exam.ExamDate)
	return &examContext{
		exam:       exam,
		window:     window,
		hours:      window.Hours(),
		date:       date,
		weekday:    WeekdayCode(date),
		courseKeys: keys,
		department: OwningDepartment(exam),
	}, nil
}

func (e *Engine) collectFacts(ec *examContext, snap *Snapshot, opts evalOptions) (map[string]*taFacts, error) {
	facts := make(map[string]*taFacts, len(snap.TAs))
	get := func(email string) *taFacts {
		key := strings.ToLower(email)
		f, ok := facts[key]
		if !ok {
			f = &taFacts{}
			facts[key] = f
		}
		return f
	}

	for _, seat := range snap.Seats {
		if seat.ExamID == ec.exam.ID {
			if opts.replacing != "" && strings.EqualFold(seat.TAEmail, opts.replacing) {
				continue
			}
			get(seat.TAEmail).holdsSeat = true
			continue
		}
		w, err := seatWindow(seat)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.SeatID, err)
		}
		f := get(seat.TAEmail)
		seatDate := CivilDate(seat.ExamDate)
		switch {
		case w.Overlaps(ec.window):
			f.overlapping = true
		case seatDate.Equal(ec.date):
			f.sameDay = true
		case seatDate.Equal(ec.date.AddDate(0, 0, -1)), seatDate.Equal(ec.date.AddDate(0, 0, 1)):
			f.adjacentDay = true
		}
	}

	for _, leave := range snap.Leaves {
		if !e.leaveBlocks(leave.Status) {
			continue
		}
		w, err := leaveWindow(leave)
		if err != nil {
			return nil, fmt.Errorf("leave %s: %w", leave.ID, err)
		}
		if w.Overlaps(ec.window) {
			get(leave.TAEmail).onLeave = true
		}
	}

	for _, slot := range snap.Slots {
		if ec.courseKeys[CourseKey(slot.Course)] {
			get(slot.TAEmail).enrolled = true
		}
		if !strings.EqualFold(slot.Day, ec.weekday) {
			continue
		}
		w, err := slotWindow(slot, ec.date)
		if err != nil {
			return nil, fmt.Errorf("weekly slot %s: %w", slot.ID, err)
		}
		if w.Overlaps(ec.window) {
			get(slot.TAEmail).lecture = true
		}
	}

	return facts, nil
}

func (e *Engine) leaveBlocks(status models.LeaveStatus) bool {
	switch status {
	case models.LeaveStatusApproved:
		return true
	case models.LeaveStatusPending:
		return e.policy.PendingLeaveBlocks
	}
	return false
}

// hardReason joins every hard exclusion that applies with "; ", or returns "".
func (e *Engine) hardReason(ta models.TA, f *taFacts, ec *examContext, snap *Snapshot, opts evalOptions) string {
	if f == nil {
		f = &taFacts{}
	}
	checks := []struct {
		applies bool
		reason  string
	}{
		{f.holdsSeat, ReasonAlreadyAssigned},
		{f.onLeave, ReasonOnLeave},
		{f.overlapping, ReasonScheduleConflict},
		{f.sameDay && e.policy.BlockSameDay, ReasonSameDay},
		{f.enrolled, ReasonEnrolled},
		{f.lecture, ReasonLectureConflict},
		{e.policy.MaxWorkload > 0 && ta.Workload+ec.hours > e.policy.MaxWorkload, ReasonOverMaxWorkload},
		{opts.swap && snap.PendingTargets[strings.ToLower(ta.Email)], ReasonPendingSwap},
	}
	var reasons []string
	for _, check := range checks {
		if check.applies {
			reasons = append(reasons, check.reason)
		}
	}
	return strings.Join(reasons, "; ")
}

// evaluate partitions the pool into assignable and unassignable candidates.
// The result is ordered by email so callers get a stable listing.
func (e *Engine) evaluate(snap *Snapshot, opts evalOptions) ([]Candidate, *examContext, error) {
	if snap == nil {
		return nil, nil, fmt.Errorf("snapshot is nil")
	}
	ec, err := newExamContext(snap.Exam)
	if err != nil {
		return nil, nil, err
	}
	facts, err := e.collectFacts(ec, snap, opts)
	if err != nil {
		return nil, nil, err
	}

	pool := make([]models.TA, 0, len(snap.TAs))
	for _, ta := range snap.TAs {
		if !ta.Active {
			continue
		}
		if opts.replacing != "" && strings.EqualFold(ta.Email, opts.replacing) {
			continue
		}
		pool = append(pool, ta)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Email < pool[j].Email })

	candidates := make([]Candidate, 0, len(pool))
	eligible := make([]models.TA, 0, len(pool))
	for _, ta := range pool {
		key := strings.ToLower(ta.Email)
		c := Candidate{TA: ta, AlreadyAssigned: snap.Roster[key]}
		if reason := e.hardReason(ta, facts[key], ec, snap, opts); reason != "" {
			c.Reason = reason
		} else {
			c.Assignable = true
			eligible = append(eligible, ta)
		}
		candidates = append(candidates, c)
	}

	holders := e.holders(snap, ec, opts)
	preferred, hasPreference := e.preferredProgram(ec, holders, eligible)
	for i := range candidates {
		if !candidates[i].Assignable {
			continue
		}
		key := strings.ToLower(candidates[i].TA.Email)
		candidates[i].Penalty, candidates[i].Overrides = e.score(candidates[i], facts[key], ec, preferred, hasPreference)
	}

	return candidates, ec, nil
}

// holders returns the TAs that keep their seat on the exam.
func (e *Engine) holders(snap *Snapshot, ec *examContext, opts evalOptions) []models.TA {
	byEmail := make(map[string]models.TA, len(snap.TAs))
	for _, ta := range snap.TAs {
		byEmail[strings.ToLower(ta.Email)] = ta
	}
	var holders []models.TA
	for _, seat := range snap.Seats {
		if seat.ExamID != ec.exam.ID {
			continue
		}
		if opts.replacing != "" && strings.EqualFold(seat.TAEmail, opts.replacing) {
			continue
		}
		if ta, ok := byEmail[strings.ToLower(seat.TAEmail)]; ok {
			holders = append(holders, ta)
		}
	}
	return holders
}

// Evaluate computes the candidate list for filling every seat of the exam.
func (e *Engine) Evaluate(snap *Snapshot) ([]Candidate, error) {
	candidates, _, err := e.evaluate(snap, evalOptions{})
	return candidates, err
}
