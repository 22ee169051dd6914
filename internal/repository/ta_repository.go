package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

const taColumns = `email, first_name, last_name, program, department, workload, ta_type, active, created_at, updated_at`

// TARepository reads TAs and maintains their workload counter.
type TARepository struct {
	db *sqlx.DB
}

// NewTARepository constructs a TARepository.
func NewTARepository(db *sqlx.DB) *TARepository {
	return &TARepository{db: db}
}

// ListActive returns every active TA ordered by email.
func (r *TARepository) ListActive(ctx context.Context, exec sqlx.ExtContext) ([]models.TA, error) {
	query := `SELECT ` + taColumns + ` FROM tas WHERE active = TRUE ORDER BY email`
	var tas []models.TA
	if err := sqlx.SelectContext(ctx, pick(r.db, exec), &tas, query); err != nil {
		return nil, fmt.Errorf("list active tas: %w", err)
	}
	return tas, nil
}

// FindByEmail loads a TA regardless of its active flag.
func (r *TARepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.TA, error) {
	query := `SELECT ` + taColumns + ` FROM tas WHERE lower(email) = lower($1)`
	var ta models.TA
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &ta, query, email); err != nil {
		return nil, err
	}
	return &ta, nil
}

// AdjustWorkload adds delta hours to the TA's workload.
func (r *TARepository) AdjustWorkload(ctx context.Context, exec sqlx.ExtContext, email string, delta float64) error {
	const query = `UPDATE tas SET workload = workload + $1, updated_at = $2 WHERE lower(email) = lower($3)`
	result, err := pick(r.db, exec).ExecContext(ctx, query, delta, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("adjust workload for %s: %w", email, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("workload rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
