package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
	"github.com/noah-isme/ta-proctoring-api/pkg/jobs"
)

const notificationJobType = "notification.create"

type notificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// NotificationConfig sizes the background writer.
type NotificationConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// NotificationService records notifications for TAs in the background so
// swap flows never wait on them. Delivery happens elsewhere.
type NotificationService struct {
	repo   notificationWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service and its queue. Call Start
// before use and Stop on shutdown.
func NewNotificationService(repo notificationWriter, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{repo: repo, logger: logger}
	svc.queue = jobs.NewQueue("notifications", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains pending notifications and stops the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify queues a notification. Failures are logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, recipient, message string) {
	notification := &models.Notification{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	job := jobs.Job{ID: notification.ID, Type: notificationJobType, Payload: notification}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("notification dropped",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(*models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	return s.repo.Create(ctx, notification)
}
