package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockBusy is returned when a variant lock could not be taken in time.
var ErrLockBusy = errors.New("system busy, please try again later (lock)")

// Locker guards the validate-then-commit window across processes.
type Locker interface {
	Acquire(ctx context.Context, keys []string) (release func(), err error)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, retries int) *RedisLocker {
	if retries < 1 {
		retries = 1
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retries:    retries,
		retryDelay: 100 * time.Millisecond,
	}
}

// VariantLockKey is the redis key guarding one variant's stock counter.
func VariantLockKey(variantID string) string {
	return "lock:variant:" + variantID
}

// Acquire takes every key or none. Keys are taken in sorted order so two
// registers locking overlapping sets cannot deadlock.
func (l *RedisLocker) Acquire(ctx context.Context, keys []string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	value := uuid.NewString()
	held := make([]string, 0, len(sorted))
	release := func() {
		for _, key := range held {
			// Fresh context: release must run even if ctx was cancelled.
			_ = releaseScript.Run(context.Background(), l.client, []string{key}, value).Err()
		}
	}

	for _, key := range sorted {
		ok, err := l.acquireOne(ctx, key, value)
		if err != nil {
			release()
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if !ok {
			release()
			return nil, ErrLockBusy
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *RedisLocker) acquireOne(ctx context.Context, key, value string) (bool, error) {
	var lastErr error
	for i := 0; i < l.retries; i++ {
		ok, err := l.client.SetNX(ctx, key, value, l.ttl).Result()
		if err == nil && ok {
			return true, nil
		}
		lastErr = err
		if i < l.retries-1 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(l.retryDelay):
			}
		}
	}
	return false, lastErr
}
