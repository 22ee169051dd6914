package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// normalizedCourse mirrors matching.CourseKey in SQL.
const normalizedCourse = `upper(regexp_replace(%s, '[^A-Za-z0-9]', '', 'g'))`

// AvailabilityRepository reads the external collaborator tables the engine
// depends on: leave requests, weekly lecture slots and course rosters.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListLeaves returns non-rejected leaves touching [from, to].
func (r *AvailabilityRepository) ListLeaves(ctx context.Context, exec sqlx.ExtContext, from, to time.Time) ([]models.LeaveRequest, error) {
	const query = `SELECT id, ta_email, start_date, to_char(start_time, 'HH24:MI') AS start_time,
       end_date, to_char(end_time, 'HH24:MI') AS end_time, status, reason
FROM leave_requests
WHERE status <> 'rejected' AND start_date <= $2 AND end_date >= $1
ORDER BY ta_email, start_date`
	var leaves []models.LeaveRequest
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &leaves, query, from, to); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaves, nil
}

// ListWeeklySlots returns the slots held on day plus any slot of the given
// courses, which marks the TA as enrolled.
func (r *AvailabilityRepository) ListWeeklySlots(ctx context.Context, exec sqlx.ExtContext, day string, courseKeys []string) ([]models.WeeklySlot, error) {
	query := `SELECT id, ta_email, day, time_slot, course FROM weekly_slots
WHERE day = $1 OR ` + fmt.Sprintf(normalizedCourse, "course") + ` = ANY($2)
ORDER BY ta_email, day, time_slot`
	var slots []models.WeeklySlot
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &slots, query, strings.ToUpper(day), pq.Array(courseKeys)); err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}
	return slots, nil
}

// ListRoster returns the emails of TAs on the staff of any of the courses.
func (r *AvailabilityRepository) ListRoster(ctx context.Context, exec sqlx.ExtContext, courseKeys []string) ([]string, error) {
	query := `SELECT DISTINCT ta_email FROM course_tas WHERE ` + fmt.Sprintf(normalizedCourse, "course_code") + ` = ANY($1) ORDER BY ta_email`
	var emails []string
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &emails, query, pq.Array(courseKeys)); err != nil {
		return nil, fmt.Errorf("list course roster: %w", err)
	}
	return emails, nil
}
