package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/ta-proctoring-api/internal/handler"
	"github.com/noah-isme/ta-proctoring-api/internal/middleware"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
	"github.com/noah-isme/ta-proctoring-api/internal/repository"
	"github.com/noah-isme/ta-proctoring-api/internal/service"
	"github.com/noah-isme/ta-proctoring-api/pkg/config"
	"github.com/noah-isme/ta-proctoring-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ta-proctoring-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ta-proctoring-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Proctoring *handler.ProctoringHandler
	Swap       *handler.SwapHandler
	Metrics    *handler.MetricsHandler
}

var (
	staffRoles     = []models.UserRole{models.RoleStaff, models.RoleSecretary, models.RoleDean, models.RoleAdmin}
	seatAdminRoles = []models.UserRole{models.RoleSecretary, models.RoleDean, models.RoleAdmin}
	swapViewRoles  = []models.UserRole{models.RoleTA, models.RoleSecretary, models.RoleDean, models.RoleAdmin}
)

// Setup builds the gin engine with every route of the API.
func Setup(
	cfg *config.Config,
	h Handlers,
	tokens *service.TokenService,
	audits *repository.AuditRepository,
	metrics *service.MetricsService,
	logr *zap.Logger,
) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action, resource, idParam string) gin.HandlerFunc {
		return middleware.Audit(audits, logr, action, resource, idParam)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokens))

	proctoring := api.Group("/proctoring")
	{
		staff := middleware.RequireRoles(staffRoles...)
		proctoring.GET("/candidate-tas/:exam_id", staff, h.Proctoring.CandidateTAs)
		proctoring.POST("/automatic-assignment/:exam_id", staff,
			audit(models.AuditActionAutoAssign, models.AuditResourceExam, ""), h.Proctoring.AutomaticAssignment)
		proctoring.POST("/confirm-assignment/:exam_id", staff,
			audit(models.AuditActionConfirm, models.AuditResourceExam, "exam_id"), h.Proctoring.ConfirmAssignment)
		proctoring.GET("/assignments/:exam_id", h.Proctoring.GetAssignment)
		proctoring.GET("/history", staff, h.Proctoring.History)
	}

	swaps := api.Group("/swap")
	{
		ta := middleware.RequireRoles(models.RoleTA)
		seatAdmin := middleware.RequireRoles(seatAdminRoles...)
		swaps.GET("/candidates/:assignment_id", middleware.RequireRoles(swapViewRoles...), h.Swap.Candidates)
		swaps.POST("/request", ta,
			audit(models.AuditActionSwapRequest, models.AuditResourceSwapRequest, ""), h.Swap.RequestSwap)
		swaps.POST("/respond/:swap_id", ta,
			audit(models.AuditActionSwapRespond, models.AuditResourceSwapRequest, "swap_id"), h.Swap.RespondSwap)
		swaps.POST("/staff-swap/:assignment_id", seatAdmin,
			audit(models.AuditActionSwapStaff, models.AuditResourceSeat, "assignment_id"), h.Swap.StaffSwap)
		swaps.GET("/my", ta, h.Swap.ListMine)
		swaps.GET("/all", seatAdmin, h.Swap.ListSeats)
		swaps.GET("/admin-history", seatAdmin, h.Swap.AdminHistory)
		swaps.GET("/history/:assignment_id", seatAdmin, h.Swap.SeatHistory)
	}

	return r
}
