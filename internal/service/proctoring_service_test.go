package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

// proctoringWorld has one 3-hour CS exam needing two proctors and three CS
// TAs whose penalty is driven by workload alone.
func proctoringWorld() *fakeWorld {
	w := newFakeWorld()
	w.addExam("exam-1", "CS101", testExamDate, "09:00", "12:00", 2)
	w.addTA("a@uni.edu", models.ProgramMS, "CS", 10)
	w.addTA("b@uni.edu", models.ProgramMS, "CS", 20)
	w.addTA("c@uni.edu", models.ProgramMS, "CS", 5)
	return w
}

func TestProctoringServiceCandidateTAs(t *testing.T) {
	w := proctoringWorld()
	w.leaves = append(w.leaves, approvedLeave("b@uni.edu", testExamDate))
	svc, _, _ := newTestProctoringService(t, w)

	resp, err := svc.CandidateTAs(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.Equal(t, dto.StatusSuccess, resp.Status)
	require.Len(t, resp.TAs, 3)

	assert.Equal(t, "c@uni.edu", resp.TAs[0].Email)
	require.NotNil(t, resp.TAs[0].Penalty)
	assert.Equal(t, 50.0, *resp.TAs[0].Penalty)
	assert.Equal(t, "a@uni.edu", resp.TAs[1].Email)

	onLeave := resp.TAs[2]
	assert.Equal(t, "b@uni.edu", onLeave.Email)
	assert.False(t, onLeave.Assignable)
	assert.Equal(t, matching.ReasonOnLeave, onLeave.Reason)
	assert.Nil(t, onLeave.Penalty)
}

func TestProctoringServiceCandidateTAsUnknownExam(t *testing.T) {
	svc, _, _ := newTestProctoringService(t, proctoringWorld())

	_, err := svc.CandidateTAs(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestProctoringServiceAutomaticPreviewWritesNothing(t *testing.T) {
	w := proctoringWorld()
	svc, mock, metrics := newTestProctoringService(t, w)

	first, err := svc.AutomaticAssignment(context.Background(), "exam-1", false, "staff@uni.edu")
	require.NoError(t, err)
	second, err := svc.AutomaticAssignment(context.Background(), "exam-1", false, "staff@uni.edu")
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.False(t, first.Committed)
	assert.Equal(t, []string{"c@uni.edu", "a@uni.edu"}, first.AssignedTAs)
	assert.Equal(t, first, second)
	assert.Empty(t, w.assignments)
	assert.Equal(t, 35.0, w.totalWorkload())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.assignments.WithLabelValues("automatic", OutcomePreview)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceAutomaticCommit(t *testing.T) {
	w := proctoringWorld()
	svc, mock, metrics := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.AutomaticAssignment(context.Background(), "exam-1", true, "staff@uni.edu")
	require.NoError(t, err)
	assert.True(t, resp.Committed)
	assert.Equal(t, []string{"c@uni.edu", "a@uni.edu"}, resp.AssignedTAs)

	stored, err := svc.GetAssignment(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentModeAutomatic, stored.Mode)
	assert.Equal(t, "staff@uni.edu", stored.CreatedBy)
	assert.Equal(t, []string{"c@uni.edu", "a@uni.edu"}, stored.Emails())

	assert.Equal(t, 8.0, w.workload("c@uni.edu"))
	assert.Equal(t, 13.0, w.workload("a@uni.edu"))
	assert.Equal(t, 20.0, w.workload("b@uni.edu"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.assignments.WithLabelValues("automatic", OutcomeCommitted)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceAutomaticInsufficientCandidates(t *testing.T) {
	w := proctoringWorld()
	w.leaves = append(w.leaves, approvedLeave("a@uni.edu", testExamDate), approvedLeave("b@uni.edu", testExamDate))
	svc, mock, _ := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.AutomaticAssignment(context.Background(), "exam-1", true, "staff@uni.edu")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInsufficientCandidate)
	appErr := appErrors.FromError(err)
	assert.Equal(t, map[string]int{"needed": 2, "eligible": 1}, appErr.Details)

	assert.Empty(t, w.assignments)
	assert.Equal(t, 35.0, w.totalWorkload())
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = svc.AutomaticAssignment(context.Background(), "exam-1", false, "staff@uni.edu")
	assert.ErrorIs(t, err, appErrors.ErrInsufficientCandidate)
}

func TestProctoringServiceConfirmRejectsWrongCount(t *testing.T) {
	w := proctoringWorld()
	svc, mock, _ := newTestProctoringService(t, w)

	_, err := svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{
		AssignedTAs: []string{"a@uni.edu", "b@uni.edu", "c@uni.edu"},
	}, "staff@uni.edu")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, []dto.FieldError{{Field: "assigned_tas", Rule: "count", Value: "got 3, need 2"}}, appErrors.FromError(err).Details)

	_, err = svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{
		AssignedTAs: []string{"a@uni.edu", "A@uni.edu"},
	}, "staff@uni.edu")
	require.Error(t, err)
	details := appErrors.FromError(err).Details.([]dto.FieldError)
	assert.Equal(t, "unique", details[0].Rule)

	_, err = svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{
		AssignedTAs: []string{"not-an-email", "b@uni.edu"},
	}, "staff@uni.edu")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Empty(t, w.assignments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceConfirmRejectsIneligible(t *testing.T) {
	w := proctoringWorld()
	w.leaves = append(w.leaves, approvedLeave("b@uni.edu", testExamDate))
	svc, mock, _ := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{
		AssignedTAs: []string{"a@uni.edu", "b@uni.edu"},
	}, "staff@uni.edu")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrEligibility)
	assert.Equal(t, []matching.Rejection{{Email: "b@uni.edu", Reason: matching.ReasonOnLeave}}, appErrors.FromError(err).Details)
	assert.Empty(t, w.assignments)
	assert.Equal(t, 35.0, w.totalWorkload())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceConfirmRecordsOverrides(t *testing.T) {
	w := proctoringWorld()
	w.addExam("exam-0", "CS102", testExamDate.AddDate(0, 0, -1), "09:00", "12:00", 1)
	w.seed("exam-0", "a@uni.edu")
	svc, mock, metrics := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{
		AssignedTAs: []string{"b@uni.edu", "a@uni.edu"},
	}, "staff@uni.edu")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"b@uni.edu", "a@uni.edu"}, resp.AssignedTAs)
	assert.Equal(t, models.OverrideInfo{Consecutive: true}, resp.OverrideInfo)

	stored, err := svc.GetAssignment(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentModeManual, stored.Mode)
	assert.True(t, stored.Consecutive)
	assert.Len(t, stored.Seats, 2)

	assert.Equal(t, 23.0, w.workload("b@uni.edu"))
	assert.Equal(t, 13.0, w.workload("a@uni.edu"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.overrides.WithLabelValues("consecutive")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceConfirmTwiceConflicts(t *testing.T) {
	w := proctoringWorld()
	svc, mock, _ := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	req := dto.ConfirmAssignmentRequest{AssignedTAs: []string{"a@uni.edu", "b@uni.edu"}}
	_, err := svc.ConfirmAssignment(context.Background(), "exam-1", req, "staff@uni.edu")
	require.NoError(t, err)

	_, err = svc.ConfirmAssignment(context.Background(), "exam-1", dto.ConfirmAssignmentRequest{AssignedTAs: []string{"c@uni.edu", "b@uni.edu"}}, "staff@uni.edu")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	stored, err := svc.GetAssignment(context.Background(), "exam-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@uni.edu", "b@uni.edu"}, stored.Emails())
	assert.Equal(t, 5.0, w.workload("c@uni.edu"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceConcurrentConfirmSameExam(t *testing.T) {
	w := proctoringWorld()
	svc, mock, _ := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	requests := []dto.ConfirmAssignmentRequest{
		{AssignedTAs: []string{"a@uni.edu", "b@uni.edu"}},
		{AssignedTAs: []string{"c@uni.edu", "b@uni.edu"}},
	}
	errs := make([]error, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req dto.ConfirmAssignmentRequest) {
			defer wg.Done()
			_, errs[i] = svc.ConfirmAssignment(context.Background(), "exam-1", req, "staff@uni.edu")
		}(i, req)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, appErrors.ErrConflict):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 35.0+6.0, w.totalWorkload())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceRollsBackOnWorkloadFailure(t *testing.T) {
	w := proctoringWorld()
	w.workloadErr = errors.New("connection reset")
	svc, mock, _ := newTestProctoringService(t, w)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.AutomaticAssignment(context.Background(), "exam-1", true, "staff@uni.edu")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProctoringServiceGetAssignmentAndHistory(t *testing.T) {
	svc, _, _ := newTestProctoringService(t, proctoringWorld())

	_, err := svc.GetAssignment(context.Background(), "exam-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	history, err := svc.History(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
