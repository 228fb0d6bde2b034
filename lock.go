package lotto

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Distributed lock strategy: acquisition uses Redis SET NX (single network
// call), release uses a Lua script so only the lock owner can delete the key.

const (
	// releaseLockScript ensures only the lock owner can release the lock.
	// Without the GET check, a client whose lock already expired could delete
	// a lock since acquired by someone else.
	releaseLockScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
)

// DistributedLockManager manages Redis distributed locks
type DistributedLockManager struct {
	redisClient   *redis.Client
	lockTimeout   time.Duration
	retryAttempts int
	retryInterval time.Duration
}

// NewLockManager creates a new distributed lock manager with default retries
func NewLockManager(redisClient *redis.Client, lockTimeout time.Duration) *DistributedLockManager {
	return &DistributedLockManager{
		redisClient:   redisClient,
		lockTimeout:   lockTimeout,
		retryAttempts: DefaultRetryAttempts,
		retryInterval: DefaultRetryInterval,
	}
}

// NewLockManagerWithRetry creates a new distributed lock manager with custom retry settings
func NewLockManagerWithRetry(
	redisClient *redis.Client,
	lockTimeout time.Duration, retryAttempts int, retryInterval time.Duration,
) *DistributedLockManager {
	return &DistributedLockManager{
		redisClient:   redisClient,
		lockTimeout:   lockTimeout,
		retryAttempts: retryAttempts,
		retryInterval: retryInterval,
	}
}

// AcquireLock attempts to acquire a distributed lock using SET NX
func (m *DistributedLockManager) AcquireLock(ctx context.Context, lockKey, lockValue string, expireTime time.Duration) (bool, error) {
	if lockKey == "" || lockValue == "" {
		return false, ErrInvalidParameters
	}
	if expireTime <= 0 {
		expireTime = DefaultLockExpiration
	}

	fullLockKey := LockKeyPrefix + lockKey

	for attempt := 0; attempt <= m.retryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		acquired, err := m.redisClient.SetNX(ctx, fullLockKey, lockValue, expireTime).Result()
		if err != nil {
			if attempt == m.retryAttempts {
				return false, ErrRedisConnectionFailed
			}
			time.Sleep(m.retryInterval)
			continue
		}

		if acquired {
			return true, nil
		}

		// Lock is held by someone else; wait before the next attempt
		if attempt < m.retryAttempts {
			time.Sleep(m.retryInterval)
		}
	}

	return false, ErrLockAcquisitionFailed
}

// ReleaseLock releases a lock previously acquired with lockValue
func (m *DistributedLockManager) ReleaseLock(ctx context.Context, lockKey, lockValue string) (bool, error) {
	if lockKey == "" || lockValue == "" {
		return false, ErrInvalidParameters
	}

	fullLockKey := LockKeyPrefix + lockKey

	for attempt := 0; attempt <= m.retryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		result, err := m.redisClient.Eval(ctx, releaseLockScript, []string{fullLockKey}, lockValue).Result()
		if err != nil {
			if attempt == m.retryAttempts {
				return false, ErrRedisConnectionFailed
			}
			time.Sleep(m.retryInterval)
			continue
		}

		if result.(int64) == 1 {
			return true, nil
		}

		// Lock was not found or value didn't match; retrying won't help
		return false, nil
	}

	return false, ErrRedisConnectionFailed
}

// TryAcquireLock attempts to acquire a lock without retries (single attempt)
func (m *DistributedLockManager) TryAcquireLock(ctx context.Context, lockKey, lockValue string, expireTime time.Duration) (bool, error) {
	if lockKey == "" || lockValue == "" {
		return false, ErrInvalidParameters
	}
	if expireTime <= 0 {
		expireTime = DefaultLockExpiration
	}

	acquired, err := m.redisClient.SetNX(ctx, LockKeyPrefix+lockKey, lockValue, expireTime).Result()
	if err != nil {
		return false, ErrRedisConnectionFailed
	}

	return acquired, nil
}

// AcquireLockWithTimeout keeps trying to acquire a lock until the timeout elapses
func (m *DistributedLockManager) AcquireLockWithTimeout(ctx context.Context, lockKey, lockValue string, expireTime, timeout time.Duration) (bool, error) {
	if lockKey == "" || lockValue == "" {
		return false, ErrInvalidParameters
	}
	if expireTime <= 0 {
		expireTime = DefaultLockExpiration
	}
	if timeout <= 0 {
		timeout = m.lockTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullLockKey := LockKeyPrefix + lockKey

	for {
		select {
		case <-timeoutCtx.Done():
			return false, ErrLockTimeout
		default:
		}

		acquired, err := m.redisClient.SetNX(timeoutCtx, fullLockKey, lockValue, expireTime).Result()
		if err != nil {
			if timeoutCtx.Err() != nil {
				return false, ErrLockTimeout
			}
			time.Sleep(m.retryInterval)
			continue
		}

		if acquired {
			return true, nil
		}

		time.Sleep(m.retryInterval)
	}
}
