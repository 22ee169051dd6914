package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ta-proctoring-api/internal/dto"
	"github.com/noah-isme/ta-proctoring-api/internal/middleware"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	"github.com/noah-isme/ta-proctoring-api/internal/service"
	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
	"github.com/noah-isme/ta-proctoring-api/pkg/response"
)

type swapService interface {
	Candidates(ctx context.Context, seatID string, caller *models.JWTClaims) (*dto.SwapCandidatesResponse, error)
	RequestSwap(ctx context.Context, req dto.SwapRequestPayload, caller *models.JWTClaims) (*models.SwapRequest, error)
	RespondSwap(ctx context.Context, swapID string, req dto.SwapResponsePayload, caller *models.JWTClaims) (*models.SwapRequest, error)
	StaffSwap(ctx context.Context, seatID string, req dto.StaffSwapPayload, caller *models.JWTClaims) (*models.SwapRequest, error)
	ListMine(ctx context.Context, caller *models.JWTClaims, limit, offset int) ([]models.SwapDetail, error)
	AdminHistory(ctx context.Context, caller *models.JWTClaims, limit, offset int) ([]models.SwapDetail, error)
	SeatHistory(ctx context.Context, seatID string, caller *models.JWTClaims) ([]models.SwapDetail, error)
	ListSeats(ctx context.Context, caller *models.JWTClaims, orderBy string, limit, offset int) ([]models.SeatDetail, error)
}

// SwapHandler exposes seat swap endpoints.
type SwapHandler struct {
	service swapService
}

// NewSwapHandler constructs a SwapHandler.
func NewSwapHandler(svc *service.SwapService) *SwapHandler {
	return &SwapHandler{service: svc}
}

// Candidates godoc
// @Summary List replacement TAs for a seat
// @Tags Swaps
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Seat ID"
// @Success 200 {object} dto.SwapCandidatesResponse
// @Failure 403 {object} response.Failure
// @Failure 404 {object} response.Failure
// @Router /swap/candidates/{assignment_id} [get]
func (h *SwapHandler) Candidates(c *gin.Context) {
	result, err := h.service.Candidates(c.Request.Context(), c.Param("assignment_id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// RequestSwap godoc
// @Summary Ask another TA to take over a seat
// @Tags Swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SwapRequestPayload true "Swap request"
// @Success 201 {object} dto.SwapRecordResponse
// @Failure 400 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Failure 422 {object} response.Failure
// @Router /swap/request [post]
func (h *SwapHandler) RequestSwap(c *gin.Context) {
	var req dto.SwapRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap request payload"))
		return
	}
	swap, err := h.service.RequestSwap(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.AuditResourceIDKey, swap.ID)
	response.Created(c, dto.SwapRecordResponse{Success: true, Swap: *swap})
}

// RespondSwap godoc
// @Summary Accept or reject a pending swap request
// @Tags Swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param swap_id path string true "Swap request ID"
// @Param payload body dto.SwapResponsePayload true "Decision"
// @Success 200 {object} dto.SwapRecordResponse
// @Failure 403 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Failure 422 {object} response.Failure
// @Router /swap/respond/{swap_id} [post]
func (h *SwapHandler) RespondSwap(c *gin.Context) {
	var req dto.SwapResponsePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap response payload"))
		return
	}
	swap, err := h.service.RespondSwap(c.Request.Context(), c.Param("swap_id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SwapRecordResponse{Success: true, Swap: *swap})
}

// StaffSwap godoc
// @Summary Move a seat to another TA immediately
// @Description An open peer request on the seat is rejected in the same transaction.
// @Tags Swaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Seat ID"
// @Param payload body dto.StaffSwapPayload true "Replacement TA"
// @Success 200 {object} dto.SwapRecordResponse
// @Failure 403 {object} response.Failure
// @Failure 409 {object} response.Failure
// @Failure 422 {object} response.Failure
// @Router /swap/staff-swap/{assignment_id} [post]
func (h *SwapHandler) StaffSwap(c *gin.Context) {
	var req dto.StaffSwapPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid staff swap payload"))
		return
	}
	swap, err := h.service.StaffSwap(c.Request.Context(), c.Param("assignment_id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SwapRecordResponse{Success: true, Swap: *swap})
}

// ListMine godoc
// @Summary List swap requests sent or received by the caller
// @Tags Swaps
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.SwapListResponse
// @Router /swap/my [get]
func (h *SwapHandler) ListMine(c *gin.Context) {
	limit, offset := pageParams(c)
	swaps, err := h.service.ListMine(c.Request.Context(), claimsFromContext(c), limit, offset)
	h.respondSwaps(c, swaps, err)
}

// AdminHistory godoc
// @Summary List every swap newest first
// @Tags Swaps
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.SwapListResponse
// @Router /swap/admin-history [get]
func (h *SwapHandler) AdminHistory(c *gin.Context) {
	limit, offset := pageParams(c)
	swaps, err := h.service.AdminHistory(c.Request.Context(), claimsFromContext(c), limit, offset)
	h.respondSwaps(c, swaps, err)
}

// SeatHistory godoc
// @Summary List the swaps of one seat oldest first
// @Tags Swaps
// @Produce json
// @Security BearerAuth
// @Param assignment_id path string true "Seat ID"
// @Success 200 {object} dto.SwapListResponse
// @Failure 404 {object} response.Failure
// @Router /swap/history/{assignment_id} [get]
func (h *SwapHandler) SeatHistory(c *gin.Context) {
	swaps, err := h.service.SeatHistory(c.Request.Context(), c.Param("assignment_id"), claimsFromContext(c))
	h.respondSwaps(c, swaps, err)
}

// ListSeats godoc
// @Summary List proctoring seats
// @Tags Swaps
// @Produce json
// @Security BearerAuth
// @Param order_by query string false "date or course"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.SeatListResponse
// @Failure 400 {object} response.Failure
// @Router /swap/all [get]
func (h *SwapHandler) ListSeats(c *gin.Context) {
	limit, offset := pageParams(c)
	seats, err := h.service.ListSeats(c.Request.Context(), claimsFromContext(c), c.Query("order_by"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	if seats == nil {
		seats = []models.SeatDetail{}
	}
	response.OK(c, dto.SeatListResponse{Status: dto.StatusSuccess, Seats: seats})
}

func (h *SwapHandler) respondSwaps(c *gin.Context, swaps []models.SwapDetail, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if swaps == nil {
		swaps = []models.SwapDetail{}
	}
	response.OK(c, dto.SwapListResponse{Status: dto.StatusSuccess, Swaps: swaps})
}
