package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Locker serializes a critical section per key. The review aggregator uses
// it to guard the read-all-then-average rating recompute for one book.
//
// The lock is best-effort: if it cannot be taken (redis down, contention
// timeout) fn still runs, which degrades to the original unguarded
// read-modify-write race the persistence layer is assumed to tolerate.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}

const (
	lockRetryDelay  = 50 * time.Millisecond
	lockMaxAttempts = 20
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker implements Locker on top of SET NX PX.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	token := uuid.NewString()

	acquired := false
	for attempt := 0; attempt < lockMaxAttempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Lock unavailable, proceeding without it")
			return fn()
		}
		if ok {
			acquired = true
			break
		}

		select {
		case <-time.After(lockRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if !acquired {
		log.Warn().Str("key", key).Msg("Lock contention timeout, proceeding without it")
		return fn()
	}

	defer func() {
		if err := releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to release lock")
		}
	}()

	return fn()
}

// NoopLocker runs the critical section without any locking. Used when redis
// is not configured and in unit tests that do not exercise concurrency.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ string, _ time.Duration, fn func() error) error {
	return fn()
}
