package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// LockRepository provides short-lived distributed locks on Redis.
type LockRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLockRepository constructs a lock repository.
func NewLockRepository(client *redis.Client, logger *zap.Logger) *LockRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockRepository{client: client, logger: logger}
}

// Acquire takes key for ttl. appErrors.ErrLockNotAcquired is returned when the
// key is held by someone else.
func (r *LockRepository) Acquire(ctx context.Context, key, token string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return appErrors.ErrLockNotAcquired
	}
	return nil
}

// Release frees key if it is still held with token.
func (r *LockRepository) Release(ctx context.Context, key, token string) error {
	released, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	if released == 0 {
		r.logger.Warn("lock expired before release", zap.String("key", key))
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (r *LockRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (r *LockRepository) Close() error {
	return r.client.Close()
}
