package matching

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two windows share any instant.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Hours returns the window length in hours.
func (w Window) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseClock(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid clock value %q", raw)
}

// CivilDate truncates t to its calendar date in UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, clock string) (time.Time, error) {
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(date).Add(offset), nil
}

func span(startDate time.Time, startClock string, endDate time.Time, endClock string) (Window, error) {
	start, err := at(startDate, startClock)
	if err != nil {
		return Window{}, err
	}
	end, err := at(endDate, endClock)
	if err != nil {
		return Window{}, err
	}
	if !end.After(start) {
		return Window{}, fmt.Errorf("window end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// ExamWindow returns the exam's scheduled interval.
func ExamWindow(exam models.Exam) (Window, error) {
	w, err := span(exam.ExamDate, exam.StartTime, exam.ExamDate, exam.EndTime)
	if err != nil {
		return Window{}, fmt.Errorf("exam %s: %w", exam.ID, err)
	}
	return w, nil
}

// ExamHours is the workload credited for proctoring the exam.
func ExamHours(exam models.Exam) (float64, error) {
	w, err := ExamWindow(exam)
	if err != nil {
		return 0, err
	}
	return w.Hours(), nil
}

func seatWindow(seat models.BookedSeat) (Window, error) {
	return span(seat.ExamDate, seat.StartTime, seat.ExamDate, seat.EndTime)
}

func leaveWindow(leave models.LeaveRequest) (Window, error) {
	startClock, endClock := leave.StartTime, leave.EndTime
	if startClock == "" {
		startClock = "00:00"
	}
	if endClock == "" {
		endClock = "23:59"
	}
	return span(leave.StartDate, startClock, leave.EndDate, endClock)
}

// slotWindow places a weekly slot such as "08:30-10:20" on date.
func slotWindow(slot models.WeeklySlot, date time.Time) (Window, error) {
	parts := strings.SplitN(slot.TimeSlot, "-", 2)
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("invalid time slot %q", slot.TimeSlot)
	}
	return span(date, parts[0], date, parts[1])
}

var weekdayCodes = map[time.Weekday]string{
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
	time.Sunday:    "SUN",
}

// WeekdayCode returns the three letter day code used by weekly slots.
func WeekdayCode(date time.Time) string {
	return weekdayCodes[date.Weekday()]
}

// CourseKey normalises course codes so "cs 101", "CS-101" and "CS101" match.
func CourseKey(code string) string {
	var b strings.Builder
	for _, r := range code {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// CourseNumber extracts the numeric part of a course code, e.g. 501 for
// "CS501". ok is false when the code carries no digits.
func CourseNumber(code string) (int, bool) {
	key := CourseKey(code)
	start := strings.IndexFunc(key, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(key) && unicode.IsDigit(rune(key[end])) {
		end++
	}
	n, err := strconv.Atoi(key[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// DepartmentPrefix returns the leading letters of a course code.
func DepartmentPrefix(code string) string {
	key := CourseKey(code)
	end := strings.IndexFunc(key, unicode.IsDigit)
	if end < 0 {
		return key
	}
	return key[:end]
}

// OwningDepartment is the department whose TAs are preferred for the exam.
// Dean exams have no owning department.
func OwningDepartment(exam models.Exam) string {
	if exam.Kind == models.ExamKindDean {
		return ""
	}
	if exam.Department != nil && strings.TrimSpace(*exam.Department) != "" {
		return strings.ToUpper(strings.TrimSpace(*exam.Department))
	}
	if len(exam.CourseCodes) == 0 {
		return ""
	}
	return DepartmentPrefix(exam.CourseCodes[0])
}
