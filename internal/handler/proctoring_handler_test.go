package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/middleware"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
	"github.com/noah-isme/ta-proctoring-api/pkg/response"
)

type proctoringServiceMock struct {
	candidates   *dto.CandidateListResponse
	automatic    *dto.AutomaticAssignmentResponse
	confirm      *dto.ConfirmAssignmentResponse
	assignment   *models.Assignment
	history      []models.Assignment
	err          error
	lastExamID   string
	lastCommit   bool
	lastActor    string
	lastConfirm  dto.ConfirmAssignmentRequest
	lastLimit    int
	lastOffset   int
	confirmCalls int
}

func (m *proctoringServiceMock) CandidateTAs(ctx context.Context, examID string) (*dto.CandidateListResponse, error) {
	m.lastExamID = examID
	return m.candidates, m.err
}

func (m *proctoringServiceMock) AutomaticAssignment(ctx context.Context, examID string, commit bool, actor string) (*dto.AutomaticAssignmentResponse, error) {
	m.lastExamID, m.lastCommit, m.lastActor = examID, commit, actor
	return m.automatic, m.err
}

func (m *proctoringServiceMock) ConfirmAssignment(ctx context.Context, examID string, req dto.ConfirmAssignmentRequest, actor string) (*dto.ConfirmAssignmentResponse, error) {
	m.confirmCalls++
	m.lastExamID, m.lastConfirm, m.lastActor = examID, req, actor
	return m.confirm, m.err
}

func (m *proctoringServiceMock) GetAssignment(ctx context.Context, examID string) (*models.Assignment, error) {
	m.lastExamID = examID
	return m.assignment, m.err
}

func (m *proctoringServiceMock) History(ctx context.Context, limit, offset int) ([]models.Assignment, error) {
	m.lastLimit, m.lastOffset = limit, offset
	return m.history, m.err
}

func newStaffContext(method, target string, body []byte, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = params
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Email: "staff@uni.edu", Role: models.RoleStaff})
	return c, w
}

func TestProctoringHandlerCandidateTAs(t *testing.T) {
	mockSvc := &proctoringServiceMock{candidates: &dto.CandidateListResponse{
		Status: dto.StatusSuccess,
		TAs:    []dto.CandidateTA{{Email: "a@uni.edu", Assignable: true}},
	}}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodGet, "/proctoring/candidate-tas/exam-1", nil, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.CandidateTAs(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exam-1", mockSvc.lastExamID)
	var body dto.CandidateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.TAs, 1)
	assert.Equal(t, "a@uni.edu", body.TAs[0].Email)
}

func TestProctoringHandlerAutomaticAssignment(t *testing.T) {
	mockSvc := &proctoringServiceMock{automatic: &dto.AutomaticAssignmentResponse{Success: true, AssignedTAs: []string{"a@uni.edu"}}}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodPost, "/proctoring/automatic-assignment/exam-1", nil, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.AutomaticAssignment(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.lastCommit)
	assert.Empty(t, c.GetString(middleware.AuditResourceIDKey))

	c, w = newStaffContext(http.MethodPost, "/proctoring/automatic-assignment/exam-1?commit=true", nil, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.AutomaticAssignment(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lastCommit)
	assert.Equal(t, "staff@uni.edu", mockSvc.lastActor)
	assert.Equal(t, "exam-1", c.GetString(middleware.AuditResourceIDKey))
}

func TestProctoringHandlerAutomaticAssignmentBadCommitFlag(t *testing.T) {
	mockSvc := &proctoringServiceMock{}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodPost, "/proctoring/automatic-assignment/exam-1?commit=maybe", nil, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.AutomaticAssignment(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.lastExamID)
}

func TestProctoringHandlerAutomaticAssignmentInsufficient(t *testing.T) {
	mockSvc := &proctoringServiceMock{err: appErrors.WithDetails(appErrors.ErrInsufficientCandidate, "not enough eligible TAs: need 3, found 1", map[string]int{"needed": 3, "eligible": 1})}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodPost, "/proctoring/automatic-assignment/exam-1", nil, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.AutomaticAssignment(c)

	require.Equal(t, http.StatusConflict, w.Code)
	var body response.Failure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INSUFFICIENT_CANDIDATES", body.Kind)
	assert.False(t, body.Success)
}

func TestProctoringHandlerConfirmAssignment(t *testing.T) {
	mockSvc := &proctoringServiceMock{confirm: &dto.ConfirmAssignmentResponse{Success: true, AssignedTAs: []string{"a@uni.edu", "b@uni.edu"}}}
	handler := &ProctoringHandler{service: mockSvc}

	payload, _ := json.Marshal(dto.ConfirmAssignmentRequest{AssignedTAs: []string{"a@uni.edu", "b@uni.edu"}})
	c, w := newStaffContext(http.MethodPost, "/proctoring/confirm-assignment/exam-1", payload, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.ConfirmAssignment(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a@uni.edu", "b@uni.edu"}, mockSvc.lastConfirm.AssignedTAs)
	assert.Equal(t, "exam-1", mockSvc.lastExamID)
}

func TestProctoringHandlerConfirmAssignmentInvalidBody(t *testing.T) {
	mockSvc := &proctoringServiceMock{}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodPost, "/proctoring/confirm-assignment/exam-1", []byte(`{"assigned_tas":`), gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.ConfirmAssignment(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.confirmCalls)
}

func TestProctoringHandlerConfirmAssignmentIneligible(t *testing.T) {
	mockSvc := &proctoringServiceMock{err: appErrors.Clone(appErrors.ErrEligibility, "c@uni.edu is on leave")}
	handler := &ProctoringHandler{service: mockSvc}

	payload, _ := json.Marshal(dto.ConfirmAssignmentRequest{AssignedTAs: []string{"c@uni.edu"}})
	c, w := newStaffContext(http.MethodPost, "/proctoring/confirm-assignment/exam-1", payload, gin.Params{{Key: "exam_id", Value: "exam-1"}})
	handler.ConfirmAssignment(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body response.Failure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "c@uni.edu is on leave", body.Message)
}

func TestProctoringHandlerGetAssignmentNotFound(t *testing.T) {
	mockSvc := &proctoringServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "exam has no confirmed proctors")}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodGet, "/proctoring/assignments/exam-9", nil, gin.Params{{Key: "exam_id", Value: "exam-9"}})
	handler.GetAssignment(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "exam-9", mockSvc.lastExamID)
}

func TestProctoringHandlerHistory(t *testing.T) {
	mockSvc := &proctoringServiceMock{history: []models.Assignment{{ID: "as-1", ExamID: "exam-1"}}}
	handler := &ProctoringHandler{service: mockSvc}

	c, w := newStaffContext(http.MethodGet, "/proctoring/history?limit=5&offset=10", nil, nil)
	handler.History(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, mockSvc.lastLimit)
	assert.Equal(t, 10, mockSvc.lastOffset)
	var body dto.AssignmentHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Assignments, 1)
	assert.Equal(t, "as-1", body.Assignments[0].ID)
}
