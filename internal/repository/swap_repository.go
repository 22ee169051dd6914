package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

const swapColumns = `id, seat_id, exam_id, kind, status, requested_by, requested_by_staff, previous_ta, target_ta, created_at, responded_at`

// SwapRepository persists swap requests and staff swap records.
type SwapRepository struct {
	db *sqlx.DB
}

// NewSwapRepository constructs a SwapRepository.
func NewSwapRepository(db *sqlx.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

// Create inserts a swap record.
func (r *SwapRepository) Create(ctx context.Context, exec sqlx.ExtContext, swap *models.SwapRequest) error {
	if swap == nil {
		return fmt.Errorf("swap payload is nil")
	}
	if swap.ID == "" {
		swap.ID = uuid.NewString()
	}
	if swap.CreatedAt.IsZero() {
		swap.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO swap_requests (id, seat_id, exam_id, kind, status, requested_by, requested_by_staff, previous_ta, target_ta, created_at, responded_at)
VALUES (:id, :seat_id, :exam_id, :kind, :status, :requested_by, :requested_by_staff, :previous_ta, :target_ta, :created_at, :responded_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, swap); err != nil {
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

// FindByID loads a swap record, optionally locking it.
func (r *SwapRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1` + lockClause(forUpdate)
	var swap models.SwapRequest
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &swap, query, id); err != nil {
		return nil, err
	}
	return &swap, nil
}

// Resolve moves a pending request to its terminal status. A request that is
// no longer pending yields sql.ErrNoRows.
func (r *SwapRepository) Resolve(ctx context.Context, exec sqlx.ExtContext, id string, status models.SwapStatus, at time.Time) error {
	const query = `UPDATE swap_requests SET status = $1, responded_at = $2 WHERE id = $3 AND status = 'pending'`
	result, err := pick(r.db, exec).ExecContext(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("resolve swap request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve swap rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindPendingForSeat loads the open request on the seat. A seat without one
// yields sql.ErrNoRows.
func (r *SwapRepository) FindPendingForSeat(ctx context.Context, exec sqlx.ExtContext, seatID string, forUpdate bool) (*models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE seat_id = $1 AND status = 'pending'` + lockClause(forUpdate)
	var swap models.SwapRequest
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &swap, query, seatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find pending swap: %w", err)
	}
	return &swap, nil
}

// ListPendingTargets returns the TAs asked to take a seat of any exam on date
// whose window overlaps start-end.
func (r *SwapRepository) ListPendingTargets(ctx context.Context, exec sqlx.ExtContext, date time.Time, start, end string) ([]string, error) {
	const query = `
SELECT DISTINCT w.target_ta
FROM swap_requests w
JOIN exams e ON e.id = w.exam_id
WHERE w.status = 'pending' AND e.exam_date = $1 AND e.start_time < $3 AND e.end_time > $2
ORDER BY w.target_ta`
	var targets []string
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &targets, query, date, start, end); err != nil {
		return nil, fmt.Errorf("list pending swap targets: %w", err)
	}
	return targets, nil
}

// List returns swap records with their exam schedule. Records are newest
// first unless filter.Ascending is set.
func (r *SwapRepository) List(ctx context.Context, filter models.SwapFilter) ([]models.SwapDetail, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Participant != "" {
		args = append(args, filter.Participant)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(lower(w.requested_by) = lower($%d) OR lower(w.target_ta) = lower($%d) OR lower(w.previous_ta) = lower($%d))", n, n, n))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("%s = upper($%d)", examDepartment, len(args)))
	}
	if filter.SeatID != "" {
		args = append(args, filter.SeatID)
		conditions = append(conditions, fmt.Sprintf("w.seat_id = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	limit, offset := clampPage(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT w.id, w.seat_id, w.exam_id, w.kind, w.status, w.requested_by, w.requested_by_staff,
       w.previous_ta, w.target_ta, w.created_at, w.responded_at,
       e.course_codes, e.department, e.exam_date,
       to_char(e.start_time, 'HH24:MI') AS start_time, to_char(e.end_time, 'HH24:MI') AS end_time
FROM swap_requests w
JOIN exams e ON e.id = w.exam_id
%s
ORDER BY w.created_at %s, w.id %s
LIMIT $%d OFFSET $%d`, where, direction, direction, len(args)-1, len(args))

	var swaps []models.SwapDetail
	if err := r.db.SelectContext(ctx, &swaps, query, args...); err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return swaps, nil
}
