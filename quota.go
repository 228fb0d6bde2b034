package lotto

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TicketQuota enforces the per-user ticket cap for a draw with Redis
// counters. The manager's count-then-create check alone is racy under
// concurrent purchases by the same user; reserving a slot with INCR first
// closes that window because INCR is atomic server-side.
type TicketQuota struct {
	redisClient *redis.Client
	maxTickets  int
	ttl         time.Duration
}

// NewTicketQuota creates a quota enforcer for the given per-draw cap
func NewTicketQuota(redisClient *redis.Client, maxTickets int) *TicketQuota {
	return &TicketQuota{
		redisClient: redisClient,
		maxTickets:  maxTickets,
		ttl:         QuotaTTL,
	}
}

func quotaKey(userID, drawID string) string {
	return fmt.Sprintf("%s%s:%s", QuotaKeyPrefix, drawID, userID)
}

// Reserve claims one ticket slot for (userID, drawID). It returns
// ErrTicketLimitExceeded when the cap is already reached, releasing the
// claimed slot before returning. The counter expires after the quota TTL so
// stale draws do not accumulate keys.
func (q *TicketQuota) Reserve(ctx context.Context, userID, drawID string) error {
	if userID == "" || drawID == "" {
		return ErrInvalidParameters
	}

	key := quotaKey(userID, drawID)

	count, err := q.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return ErrRedisConnectionFailed
	}

	// First reservation creates the key; give it a lifetime. On failure the
	// claimed slot is returned, otherwise a TTL-less key would hold it forever.
	if count == 1 {
		if err := q.redisClient.Expire(ctx, key, q.ttl).Err(); err != nil {
			q.redisClient.Decr(ctx, key)
			return ErrRedisConnectionFailed
		}
	}

	if count > int64(q.maxTickets) {
		// Undo the over-claim so a later purchase is not blocked forever
		if err := q.redisClient.Decr(ctx, key).Err(); err != nil {
			return ErrRedisConnectionFailed
		}
		return ErrTicketLimitExceeded
	}

	return nil
}

// Release returns one previously reserved slot, for purchases that fail
// after reservation
func (q *TicketQuota) Release(ctx context.Context, userID, drawID string) error {
	if userID == "" || drawID == "" {
		return ErrInvalidParameters
	}

	if err := q.redisClient.Decr(ctx, quotaKey(userID, drawID)).Err(); err != nil {
		return ErrRedisConnectionFailed
	}
	return nil
}

// Used returns how many slots are currently reserved for (userID, drawID)
func (q *TicketQuota) Used(ctx context.Context, userID, drawID string) (int, error) {
	if userID == "" || drawID == "" {
		return 0, ErrInvalidParameters
	}

	count, err := q.redisClient.Get(ctx, quotaKey(userID, drawID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, ErrRedisConnectionFailed
	}
	return count, nil
}
