package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

const (
	assignmentColumns = `id, exam_id, mode, created_by, created_at, consecutive_overridden, ms_phd_overridden, department_overridden`
	seatColumns       = `id, assignment_id, exam_id, ta_email, position, updated_at`
)

// AssignmentRepository persists confirmed proctor assignments and their seats.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts the assignment and one seat per entry of Seats. A second
// assignment for the same exam violates the exam_id unique key.
func (r *AssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment payload is nil")
	}
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	target := pick(r.db, exec)

	const insertAssignment = `
INSERT INTO exam_assignments (id, exam_id, mode, created_by, created_at, consecutive_overridden, ms_phd_overridden, department_overridden)
VALUES (:id, :exam_id, :mode, :created_by, :created_at, :consecutive_overridden, :ms_phd_overridden, :department_overridden)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertAssignment, assignment); err != nil {
		return fmt.Errorf("insert exam assignment: %w", err)
	}

	const insertSeat = `
INSERT INTO proctor_seats (id, assignment_id, exam_id, ta_email, position, updated_at)
VALUES (:id, :assignment_id, :exam_id, :ta_email, :position, :updated_at)`
	for i := range assignment.Seats {
		seat := &assignment.Seats[i]
		if seat.ID == "" {
			seat.ID = uuid.NewString()
		}
		seat.AssignmentID = assignment.ID
		seat.ExamID = assignment.ExamID
		seat.Position = i + 1
		seat.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, insertSeat, seat); err != nil {
			return fmt.Errorf("insert proctor seat: %w", err)
		}
	}
	return nil
}

// FindByExamID loads the assignment of an exam with its seats in position order.
func (r *AssignmentRepository) FindByExamID(ctx context.Context, exec sqlx.ExtContext, examID string) (*models.Assignment, error) {
	target := pick(r.db, exec)
	query := `SELECT ` + assignmentColumns + ` FROM exam_assignments WHERE exam_id = $1`
	var assignment models.Assignment
	if err := sqlx.GetContext(ctx, target, &assignment, query, examID); err != nil {
		return nil, err
	}
	seats, err := r.seatsFor(ctx, target, []string{assignment.ID})
	if err != nil {
		return nil, err
	}
	assignment.Seats = seats[assignment.ID]
	return &assignment, nil
}

// ExistsForExam reports whether the exam already has an assignment.
func (r *AssignmentRepository) ExistsForExam(ctx context.Context, exec sqlx.ExtContext, examID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM exam_assignments WHERE exam_id = $1)`
	var exists bool
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exists, query, examID); err != nil {
		return false, fmt.Errorf("check exam assignment: %w", err)
	}
	return exists, nil
}

// ListHistory returns assignments newest first.
func (r *AssignmentRepository) ListHistory(ctx context.Context, limit, offset int) ([]models.Assignment, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + assignmentColumns + ` FROM exam_assignments ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list assignment history: %w", err)
	}
	if len(assignments) == 0 {
		return assignments, nil
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	seats, err := r.seatsFor(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		assignments[i].Seats = seats[assignments[i].ID]
	}
	return assignments, nil
}

func (r *AssignmentRepository) seatsFor(ctx context.Context, target sqlx.QueryerContext, assignmentIDs []string) (map[string][]models.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM proctor_seats WHERE assignment_id = ANY($1) ORDER BY assignment_id, position`
	var seats []models.Seat
	if err := sqlx.SelectContext(ctx, target, &seats, query, pq.Array(assignmentIDs)); err != nil {
		return nil, fmt.Errorf("list proctor seats: %w", err)
	}
	grouped := make(map[string][]models.Seat, len(assignmentIDs))
	for _, seat := range seats {
		grouped[seat.AssignmentID] = append(grouped[seat.AssignmentID], seat)
	}
	return grouped, nil
}

// FindSeat loads a seat, optionally locking it for the transaction.
func (r *AssignmentRepository) FindSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM proctor_seats WHERE id = $1` + lockClause(forUpdate)
	var seat models.Seat
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &seat, query, seatID); err != nil {
		return nil, err
	}
	return &seat, nil
}

// ReassignSeat hands the seat from one TA to another. It only succeeds while
// the seat is still held by from; otherwise sql.ErrNoRows is returned.
func (r *AssignmentRepository) ReassignSeat(ctx context.Context, exec sqlx.ExtContext, seatID, from, to string) error {
	const query = `UPDATE proctor_seats SET ta_email = $1, updated_at = $2 WHERE id = $3 AND lower(ta_email) = lower($4)`
	result, err := pick(r.db, exec).ExecContext(ctx, query, to, time.Now().UTC(), seatID, from)
	if err != nil {
		return fmt.Errorf("reassign proctor seat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reassign seat rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBookedSeats returns every seat on exams dated within [from, to].
func (r *AssignmentRepository) ListBookedSeats(ctx context.Context, exec sqlx.ExtContext, from, to time.Time) ([]models.BookedSeat, error) {
	const query = `SELECT s.id AS seat_id, s.exam_id, s.ta_email, e.exam_date,
       to_char(e.start_time, 'HH24:MI') AS start_time, to_char(e.end_time, 'HH24:MI') AS end_time
FROM proctor_seats s
JOIN exams e ON e.id = s.exam_id
WHERE e.exam_date BETWEEN $1 AND $2
ORDER BY e.exam_date, s.exam_id, s.position`
	var seats []models.BookedSeat
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &seats, query, from, to); err != nil {
		return nil, fmt.Errorf("list booked seats: %w", err)
	}
	return seats, nil
}

// ListSeats returns seats joined with exam and holder details.
func (r *AssignmentRepository) ListSeats(ctx context.Context, filter models.SeatFilter) ([]models.SeatDetail, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("%s = upper($%d)", examDepartment, len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	order := "e.exam_date, e.start_time, s.exam_id, s.position"
	if filter.OrderBy == "course" {
		order = "e.course_codes[1], e.exam_date, e.start_time, s.position"
	}

	limit, offset := clampPage(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT s.id, s.assignment_id, s.exam_id, s.ta_email, s.position, s.updated_at,
       e.course_codes, e.department, e.exam_date,
       to_char(e.start_time, 'HH24:MI') AS start_time, to_char(e.end_time, 'HH24:MI') AS end_time,
       t.first_name, t.last_name, t.department AS ta_department
FROM proctor_seats s
JOIN exams e ON e.id = s.exam_id
JOIN tas t ON t.email = s.ta_email
%s
ORDER BY %s
LIMIT $%d OFFSET $%d`, where, order, len(args)-1, len(args))

	var seats []models.SeatDetail
	if err := r.db.SelectContext(ctx, &seats, query, args...); err != nil {
		return nil, fmt.Errorf("list proctor seats: %w", err)
	}
	return seats, nil
}
