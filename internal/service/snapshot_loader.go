package service

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

type taReader interface {
	ListActive(ctx context.Context, exec sqlx.ExtContext) ([]models.TA, error)
}

type availabilityReader interface {
	ListLeaves(ctx context.Context, exec sqlx.ExtContext, from, to time.Time) ([]models.LeaveRequest, error)
	ListWeeklySlots(ctx context.Context, exec sqlx.ExtContext, day string, courseKeys []string) ([]models.WeeklySlot, error)
	ListRoster(ctx context.Context, exec sqlx.ExtContext, courseKeys []string) ([]string, error)
}

type bookedSeatReader interface {
	ListBookedSeats(ctx context.Context, exec sqlx.ExtContext, from, to time.Time) ([]models.BookedSeat, error)
}

type pendingTargetReader interface {
	ListPendingTargets(ctx context.Context, exec sqlx.ExtContext, date time.Time, start, end string) ([]string, error)
}

type snapshotSource interface {
	Load(ctx context.Context, exec sqlx.ExtContext, exam models.Exam) (*matching.Snapshot, error)
}

// SnapshotLoader gathers everything the matching engine needs for one exam.
// Pass the open transaction as exec so the snapshot matches what gets written.
type SnapshotLoader struct {
	tas          taReader
	availability availabilityReader
	seats        bookedSeatReader
	swaps        pendingTargetReader
}

// NewSnapshotLoader constructs a SnapshotLoader.
func NewSnapshotLoader(tas taReader, availability availabilityReader, seats bookedSeatReader, swaps pendingTargetReader) *SnapshotLoader {
	return &SnapshotLoader{tas: tas, availability: availability, seats: seats, swaps: swaps}
}

// Load reads the TA pool, the seats booked on the exam day and its neighbours,
// overlapping leaves, lecture slots, the course roster and the pending swap
// targets of every exam in the same slot.
func (l *SnapshotLoader) Load(ctx context.Context, exec sqlx.ExtContext, exam models.Exam) (*matching.Snapshot, error) {
	internalErr := func(err error, msg string) error {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
	}

	day := matching.CivilDate(exam.ExamDate)
	courseKeys := make([]string, 0, len(exam.CourseCodes))
	for _, code := range exam.CourseCodes {
		if key := matching.CourseKey(code); key != "" {
			courseKeys = append(courseKeys, key)
		}
	}

	tas, err := l.tas.ListActive(ctx, exec)
	if err != nil {
		return nil, internalErr(err, "failed to load TAs")
	}
	seats, err := l.seats.ListBookedSeats(ctx, exec, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, internalErr(err, "failed to load booked seats")
	}
	leaves, err := l.availability.ListLeaves(ctx, exec, day, day)
	if err != nil {
		return nil, internalErr(err, "failed to load leave requests")
	}
	slots, err := l.availability.ListWeeklySlots(ctx, exec, matching.WeekdayCode(day), courseKeys)
	if err != nil {
		return nil, internalErr(err, "failed to load weekly slots")
	}
	roster, err := l.availability.ListRoster(ctx, exec, courseKeys)
	if err != nil {
		return nil, internalErr(err, "failed to load course roster")
	}
	targets, err := l.swaps.ListPendingTargets(ctx, exec, day, exam.StartTime, exam.EndTime)
	if err != nil {
		return nil, internalErr(err, "failed to load pending swaps")
	}

	return &matching.Snapshot{
		Exam:           exam,
		TAs:            tas,
		Seats:          seats,
		Leaves:         leaves,
		Slots:          slots,
		Roster:         emailSet(roster),
		PendingTargets: emailSet(targets),
	}, nil
}

func emailSet(emails []string) map[string]bool {
	set := make(map[string]bool, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return set
}
