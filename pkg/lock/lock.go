package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KeyedLock implements a Redis-backed exclusive lock per resource key. The
// callback path uses it to serialise concurrent worker callbacks for the same
// task id on top of the conditional status update.
type KeyedLock struct {
	client         *redis.Client
	prefix         string
	lockTTL        time.Duration
	acquireTimeout time.Duration
}

// New creates a KeyedLock.
//   - prefix: namespace for lock keys (e.g. "media_vault:task_lock:")
//   - ttl: how long a lock is held before auto-expiry (prevents deadlock)
//   - acquireTimeout: max time to wait when trying to acquire a lock
func New(client *redis.Client, prefix string, ttl, acquireTimeout time.Duration) *KeyedLock {
	return &KeyedLock{
		client:         client,
		prefix:         prefix,
		lockTTL:        ttl,
		acquireTimeout: acquireTimeout,
	}
}

// Acquire attempts to obtain the lock for key, blocking with exponential
// backoff until success or timeout. Returns a unique lockID used for Release.
func (l *KeyedLock) Acquire(ctx context.Context, key string) (string, error) {
	lockID := uuid.New().String()
	lockKey := l.prefix + key
	deadline := time.Now().Add(l.acquireTimeout)
	backoff := 50 * time.Millisecond

	for {
		ok, err := l.client.SetNX(ctx, lockKey, lockID, l.lockTTL).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return lockID, nil
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("timeout acquiring lock %q after %s", key, l.acquireTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}

		// exponential backoff, max 500ms
		backoff *= 2
		if backoff > 500*time.Millisecond {
			backoff = 500 * time.Millisecond
		}
	}
}

// releaseScript atomically checks that the lock value matches before deleting,
// preventing a client from releasing a lock it no longer owns.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// Release releases the lock for key only if it is still owned by lockID.
func (l *KeyedLock) Release(ctx context.Context, key, lockID string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, lockID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("redis release: %w", err)
	}
	return nil
}
