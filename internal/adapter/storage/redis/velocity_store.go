package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// VelocityStore implements the per-user payment attempt counter consumed by
// the risk scorer. Fixed-window: INCR + EXPIRE on a key scoped by windowID.
type VelocityStore struct {
	client *goredis.Client
	prefix string
}

// NewVelocityStore creates a new Redis-backed velocity store.
func NewVelocityStore(client *goredis.Client) *VelocityStore {
	return &VelocityStore{
		client: client,
		prefix: "velocity:",
	}
}

// Increment bumps the counter for the current window and returns the count.
func (s *VelocityStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowID := time.Now().Unix() / int64(window.Seconds())
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowID)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis velocity incr: %w", err)
	}

	// Set expiry only on first increment (new window)
	if count == 1 {
		s.client.Expire(ctx, redisKey, window+time.Second)
	}

	return count, nil
}
