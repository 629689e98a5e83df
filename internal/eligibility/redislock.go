package eligibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockRetry = 25 * time.Millisecond
	lockKeyPrefix    = "cnr:audit:lock:"
)

// releaseScript deletes the key only when it still holds our token, so a
// holder whose TTL lapsed cannot release a lock taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a cross-replica Locker built on SET NX PX. The TTL bounds
// how long a crashed holder can block an id; it must exceed the longest
// audit (two authority timeouts plus the commit).
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

type RedisLockerOption func(*RedisLocker)

func WithLockTTL(ttl time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithLockRetry(retry time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if retry > 0 {
			l.retry = retry
		}
	}
}

func WithLockLogger(logger *slog.Logger) RedisLockerOption {
	return func(l *RedisLocker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewRedisLocker(client *redis.Client, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		ttl:    defaultLockTTL,
		retry:  defaultLockRetry,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire audit lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// Release on a fresh context: the audit's own context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("failed to release audit lock", "key", redisKey, "error", err)
		}
	}, nil
}
