package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCounter tracks sliding windows in a Redis sorted set per caller key:
// members are scored by event time, stale members are trimmed before the
// cardinality is read. All commands run in one pipeline round trip.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter builds a counter on an existing client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Count implements WindowCounter.
func (r *RedisCounter) Count(ctx context.Context, key string, policy Policy) (int, error) {
	now := time.Now()
	cutoff := now.Add(-policy.Window)
	setKey := "admission:window:" + key

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	pipe.ZAdd(ctx, setKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	card := pipe.ZCard(ctx, setKey)
	pipe.Expire(ctx, setKey, policy.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("admission window count: %w", err)
	}
	return int(card.Val()), nil
}
