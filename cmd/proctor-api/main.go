package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ta-proctoring-api/api/swagger"
	"github.com/noah-isme/ta-proctoring-api/internal/handler"
	"github.com/noah-isme/ta-proctoring-api/internal/matching"
	"github.com/noah-isme/ta-proctoring-api/internal/repository"
	"github.com/noah-isme/ta-proctoring-api/internal/router"
	"github.com/noah-isme/ta-proctoring-api/internal/service"
	"github.com/noah-isme/ta-proctoring-api/pkg/cache"
	"github.com/noah-isme/ta-proctoring-api/pkg/config"
	"github.com/noah-isme/ta-proctoring-api/pkg/database"
	"github.com/noah-isme/ta-proctoring-api/pkg/logger"
)

// @title TA Proctoring API
// @version 1.0.0
// @description Proctor selection and seat swaps for exam scheduling
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var lockRepo *repository.LockRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		lockRepo = repository.NewLockRepository(redisClient, logr)
		defer lockRepo.Close()
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	taRepo := repository.NewTARepository(db)
	examRepo := repository.NewExamRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var locker *service.ExamLocker
	if lockRepo != nil {
		locker = service.NewExamLocker(lockRepo, cfg.Proctoring.LockTTL, metrics, logr)
	} else {
		locker = service.NewExamLocker(nil, cfg.Proctoring.LockTTL, metrics, logr)
	}

	engine := matching.New(policyFromConfig(cfg.Proctoring))
	snapshots := service.NewSnapshotLoader(taRepo, availabilityRepo, assignmentRepo, swapRepo)

	notifications := service.NewNotificationService(notificationRepo, service.NotificationConfig{
		Workers:    cfg.Notifications.Workers,
		Retries:    cfg.Notifications.Retries,
		RetryDelay: time.Second,
	}, logr)
	notifyCtx, stopNotifications := context.WithCancel(context.Background())
	notifications.Start(notifyCtx)

	proctoringSvc := service.NewProctoringService(db, examRepo, taRepo, assignmentRepo, snapshots, locker, engine, metrics, validate, logr)
	swapSvc := service.NewSwapService(db, examRepo, taRepo, assignmentRepo, swapRepo, snapshots, locker, engine, notifications, metrics, validate, logr)
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if lockRepo != nil {
		checks["redis"] = lockRepo.Ping
	}

	r := router.Setup(cfg, router.Handlers{
		Proctoring: handler.NewProctoringHandler(proctoringSvc),
		Swap:       handler.NewSwapHandler(swapSvc),
		Metrics:    handler.NewMetricsHandler(metrics, checks),
	}, tokens, auditRepo, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}

	notifications.Stop()
	stopNotifications()
}

func policyFromConfig(cfg config.ProctoringConfig) matching.Policy {
	return matching.Policy{
		ConsecutivePenalty:     cfg.ConsecutivePenalty,
		ProgramMixPenalty:      cfg.ProgramMixPenalty,
		DepartmentPenalty:      cfg.DepartmentPenalty,
		RosterDepartmentFactor: cfg.RosterDepartmentFactor,
		WorkloadWeight:         cfg.WorkloadWeight,
		GraduateCourseLevel:    cfg.GraduateCourseLevel,
		NoMixPrograms:          cfg.NoMixPrograms,
		BlockSameDay:           cfg.BlockSameDay,
		PendingLeaveBlocks:     cfg.PendingLeaveBlocks,
		MaxWorkload:            cfg.MaxWorkload,
	}
}
