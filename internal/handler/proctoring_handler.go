package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/middleware"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	"github.com/noah-isme/ta-proctoring-api/internal/service"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
	"github.com/noah-isme/ta-proctoring-api/pkg/response"
)

type proctoringService interface {
	CandidateTAs(ctx context.Context, examID string) (*dto.CandidateListResponse, error)
	AutomaticAssignment(ctx context.Context, examID string, commit bool, actor string) (*dto.AutomaticAssignmentResponse, error)
	ConfirmAssignment(ctx context.Context, examID string, req dto.ConfirmAssignmentRequest, actor string) (*dto.ConfirmAssignmentResponse, error)
	GetAssignment(ctx context.Context, examID string) (*models.Assignment, error)
	History(ctx context.Context, limit, offset int) ([]models.Assignment, error)
}

// ProctoringHandler exposes proctor selection endpoints.
type ProctoringHandler struct {
	service proctoringService
}

// NewProctoringHandler constructs a ProctoringHandler.
func NewProctoringHandler(svc *service.ProctoringService) *ProctoringHandler {
	return &ProctoringHandler{service: svc}
}

// CandidateTAs godoc
// @Summary List candidate proctors for an exam
// @Description Assignable TAs come first in ranking order, followed by the rest with the reason they were excluded.
// @Tags Proctoring
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.CandidateListResponse
// @Failure 404 {object} response.Failure
// @Router /proctoring/candidate-tas/{exam_id} [get]
func (h *ProctoringHandler) CandidateTAs(c *gin.Context) {
	result, err := h.service.CandidateTAs(c.Request.Context(), c.Param("exam_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// AutomaticAssignment godoc
// @Summary Choose proctors automatically
// @Description Previews the best selection. With commit=true the selection is persisted in the same transaction.
// @Tags Proctoring
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Param commit query bool false "Persist the selection"
// @Success 200 {object} dto.AutomaticAssignmentResponse
// @Failure 409 {object} response.Failure
// @Failure 422 {object} response.Failure
// @Router /proctoring/automatic-assignment/{exam_id} [post]
func (h *ProctoringHandler) AutomaticAssignment(c *gin.Context) {
	commit := false
	if raw := c.Query("commit"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "commit must be a boolean"))
			return
		}
		commit = parsed
	}
	examID := c.Param("exam_id")
	result, err := h.service.AutomaticAssignment(c.Request.Context(), examID, commit, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if commit {
		c.Set(middleware.AuditResourceIDKey, examID)
	}
	response.OK(c, result)
}

// ConfirmAssignment godoc
// @Summary Confirm a staff-chosen proctor list
// @Tags Proctoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Param payload body dto.ConfirmAssignmentRequest true "Selected TAs"
// @Success 200 {object} dto.ConfirmAssignmentResponse
// @Failure 400 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Failure 422 {object} response.Failure
// @Router /proctoring/confirm-assignment/{exam_id} [post]
func (h *ProctoringHandler) ConfirmAssignment(c *gin.Context) {
	var req dto.ConfirmAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	result, err := h.service.ConfirmAssignment(c.Request.Context(), c.Param("exam_id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetAssignment godoc
// @Summary Get the confirmed proctors of an exam
// @Tags Proctoring
// @Produce json
// @Security BearerAuth
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} models.Assignment
// @Failure 404 {object} response.Failure
// @Router /proctoring/assignments/{exam_id} [get]
func (h *ProctoringHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.service.GetAssignment(c.Request.Context(), c.Param("exam_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// History godoc
// @Summary List confirmed assignments newest first
// @Tags Proctoring
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.AssignmentHistoryResponse
// @Router /proctoring/history [get]
func (h *ProctoringHandler) History(c *gin.Context) {
	limit, offset := pageParams(c)
	assignments, err := h.service.History(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AssignmentHistoryResponse{Status: dto.StatusSuccess, Assignments: assignments})
}
