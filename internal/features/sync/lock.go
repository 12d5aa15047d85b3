package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"plm-connector/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrSyncInProgress is returned when another pass holds the token. Callers are never queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// Locker hands out the single mutual-exclusion token shared by every pass.
type Locker interface {
	// TryAcquire returns immediately: either a release func or ErrSyncInProgress.
	TryAcquire(ctx context.Context) (release func(), err error)
}

// MemoryLocker guards passes within one process.
type MemoryLocker struct {
	mu stdsync.Mutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{}
}

func (l *MemoryLocker) TryAcquire(ctx context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	var once stdsync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}

const (
	redisLockKey = "plm-connector:sync:lock"
	redisLockTTL = time.Hour
)

// Only delete the key when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLocker guards passes across service instances with SET NX and a TTL.
type RedisLocker struct {
	client redisLockClient
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisLocker(client redisLockClient, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, key: redisLockKey, ttl: redisLockTTL, logger: logger}
}

func (l *RedisLocker) TryAcquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !ok {
		return nil, ErrSyncInProgress
	}

	var once stdsync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
				l.logger.Warn("Failed to release sync lock", zap.Error(err))
			}
		})
	}, nil
}

// NewLocker picks the lock backend from configuration. The Redis client is nil for the memory backend.
func NewLocker(cfg *config.Config, client *redis.Client, logger *zap.Logger) Locker {
	if cfg.SyncLockBackend == "redis" && client != nil {
		logger.Info("Using Redis sync lock", zap.String("addr", cfg.RedisAddr))
		return NewRedisLocker(client, logger)
	}
	return NewMemoryLocker()
}
