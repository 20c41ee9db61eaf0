package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained is returned by WithLock when another holder keeps the lock past the retry budget.
var ErrLockNotObtained = errors.New("lock not obtained")

// WithLock runs fn while holding the Redis lock key. The lock expires after ttl if the holder
// dies; acquisition is retried every 500ms until wait elapses.
func WithLock(ctx context.Context, client redis.UniversalClient, key string, ttl, wait time.Duration, fn func(ctx context.Context) error) error {
	locker := redislock.New(client)

	retries := int(wait / (500 * time.Millisecond))
	lock, err := locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(500*time.Millisecond), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%w: %s", ErrLockNotObtained, key)
	}
	if err != nil {
		return fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()

	return fn(ctx)
}
