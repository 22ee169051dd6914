package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

type lockStore interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) error
	Release(ctx context.Context, key, token string) error
}

// ExamLocker serialises mutations of one exam. Callers in this process queue
// on a local mutex; when a lock store is configured the key is also held there
// so other instances wait too.
type ExamLocker struct {
	store   lockStore
	ttl     time.Duration
	retry   time.Duration
	metrics *MetricsService
	logger  *zap.Logger

	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewExamLocker constructs a locker. store may be nil.
func NewExamLocker(store lockStore, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *ExamLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &ExamLocker{
		store:   store,
		ttl:     ttl,
		retry:   50 * time.Millisecond,
		metrics: metrics,
		logger:  logger,
		held:    make(map[string]chan struct{}),
	}
}

// Lock blocks until the exam is free or the wait exceeds the lock TTL. The
// returned func releases the lock.
func (l *ExamLocker) Lock(ctx context.Context, examID string) (func(), error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	key := "proctoring:exam:" + examID
	releaseLocal, err := l.lockLocal(ctx, key)
	if err != nil {
		return nil, l.busy(err)
	}

	releaseRemote, err := l.lockRemote(ctx, key)
	if err != nil {
		releaseLocal()
		return nil, l.busy(err)
	}
	l.metrics.ObserveLockWait(time.Since(started))

	return func() {
		releaseRemote()
		releaseLocal()
	}, nil
}

func (l *ExamLocker) lockLocal(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		wait, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()
			return func() {
				l.mu.Lock()
				delete(l.held, key)
				l.mu.Unlock()
				close(done)
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *ExamLocker) lockRemote(ctx context.Context, key string) (func(), error) {
	if l.store == nil {
		return func() {}, nil
	}
	token := uuid.NewString()
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		err := l.store.Acquire(ctx, key, token, l.ttl)
		if err == nil {
			break
		}
		if !errors.Is(err, appErrors.ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.store.Release(releaseCtx, key, token); err != nil {
			l.logger.Warn("failed to release exam lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (l *ExamLocker) busy(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "exam is being updated by another request, retry shortly")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock exam")
}
