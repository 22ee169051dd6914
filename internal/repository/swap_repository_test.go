package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

func TestSwapRepositoryCreate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO swap_requests")).WillReturnResult(sqlmock.NewResult(1, 1))

	swap := &models.SwapRequest{
		SeatID:      "seat-1",
		ExamID:      "exam-1",
		Kind:        models.SwapKindPeer,
		Status:      models.SwapStatusPending,
		RequestedBy: "y@uni.edu",
		PreviousTA:  "y@uni.edu",
		TargetTA:    "z@uni.edu",
	}
	require.NoError(t, repo.Create(context.Background(), nil, swap))
	assert.NotEmpty(t, swap.ID)
	assert.False(t, swap.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryResolveOnlyPending(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE swap_requests SET status = $1, responded_at = $2 WHERE id = $3 AND status = 'pending'")).
		WithArgs(models.SwapStatusAccepted, at, "swap-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Resolve(context.Background(), nil, "swap-1", models.SwapStatusAccepted, at))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE swap_requests SET status")).
		WithArgs(models.SwapStatusRejected, at, "swap-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Resolve(context.Background(), nil, "swap-1", models.SwapStatusRejected, at)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryFindByIDForUpdate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)

	mock.ExpectQuery(`FROM swap_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs("swap-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "exam_id", "kind", "status", "requested_by", "requested_by_staff", "previous_ta", "target_ta", "created_at", "responded_at"}).
			AddRow("swap-1", "seat-1", "exam-1", "peer", "pending", "y@uni.edu", false, "y@uni.edu", "z@uni.edu", time.Now(), nil))

	swap, err := repo.FindByID(context.Background(), nil, "swap-1", true)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusPending, swap.Status)
	assert.Nil(t, swap.RespondedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryPendingQueries(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()
	columns := []string{"id", "seat_id", "exam_id", "kind", "status", "requested_by", "requested_by_staff", "previous_ta", "target_ta", "created_at", "responded_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM swap_requests WHERE seat_id = $1 AND status = 'pending' FOR UPDATE")).
		WithArgs("seat-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("swap-1", "seat-1", "exam-1", "peer", "pending", "y@uni.edu", false, "y@uni.edu", "z@uni.edu", time.Now(), nil))
	pending, err := repo.FindPendingForSeat(ctx, nil, "seat-1", true)
	require.NoError(t, err)
	assert.Equal(t, "swap-1", pending.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM swap_requests WHERE seat_id = $1 AND status = 'pending'")).
		WithArgs("seat-2").
		WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.FindPendingForSeat(ctx, nil, "seat-2", false)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryListPendingTargetsSpansOverlappingExams(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)

	mock.ExpectQuery(`JOIN exams e ON e.id = w.exam_id\s+WHERE w.status = 'pending' AND e.exam_date = \$1 AND e.start_time < \$3 AND e.end_time > \$2`).
		WithArgs(examDate, "09:00", "11:00").
		WillReturnRows(sqlmock.NewRows([]string{"target_ta"}).AddRow("v@uni.edu").AddRow("z@uni.edu"))

	targets, err := repo.ListPendingTargets(context.Background(), nil, examDate, "09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"v@uni.edu", "z@uni.edu"}, targets)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryListFilters(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewSwapRepository(db)

	columns := []string{"id", "seat_id", "exam_id", "kind", "status", "requested_by", "requested_by_staff", "previous_ta", "target_ta", "created_at", "responded_at", "course_codes", "department", "exam_date", "start_time", "end_time"}
	mock.ExpectQuery(`WHERE w.seat_id = \$1\s+ORDER BY w.created_at ASC, w.id ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("seat-1", 100, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("swap-1", "seat-1", "exam-1", "staff", "staff", "sec@uni.edu", true, "y@uni.edu", "z@uni.edu", time.Now(), time.Now(), "{CS101}", "CS", examDate, "09:00", "11:00"))

	swaps, err := repo.List(context.Background(), models.SwapFilter{SeatID: "seat-1", Ascending: true})
	require.NoError(t, err)
	require.Len(t, swaps, 1)
	assert.Equal(t, models.SwapStatusStaff, swaps[0].Status)
	require.NotNil(t, swaps[0].RespondedAt)

	mock.ExpectQuery(`lower\(w.requested_by\) = lower\(\$1\).*ORDER BY w.created_at DESC`).
		WithArgs("z@uni.edu", 20, 0).
		WillReturnRows(sqlmock.NewRows(columns))
	swaps, err = repo.List(context.Background(), models.SwapFilter{Participant: "z@uni.edu", Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, swaps)
	require.NoError(t, mock.ExpectationsWereMet())
}
