package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// ExamRepository reads exam schedules.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindByID loads an exam. With forUpdate the row stays locked until the
// surrounding transaction ends, serialising assignment of the same exam.
func (r *ExamRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string, forUpdate bool) (*models.Exam, error) {
	query := `SELECT id, kind, course_codes, department, exam_date,
       to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time,
       classrooms, num_proctors, student_count, created_at
FROM exams WHERE id = $1` + lockClause(forUpdate)
	var exam models.Exam
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}
