package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventDedupStore implements ports.EventDedupStore using Redis. It is the
// fast-path guard against webhook redelivery; the webhook_events table
// remains the authoritative layer when Redis is unavailable. Keys are set
// only after an event's processing committed, never before.
type EventDedupStore struct {
	client *goredis.Client
	prefix string
}

// NewEventDedupStore creates a new Redis-backed event dedup store.
func NewEventDedupStore(client *goredis.Client) *EventDedupStore {
	return &EventDedupStore{
		client: client,
		prefix: "webhook_event:",
	}
}

// Seen reports whether the event ID was already processed within the TTL.
func (s *EventDedupStore) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis event dedup: %w", err)
	}
	return n > 0, nil
}

// MarkSeen records the event ID for the given TTL.
func (s *EventDedupStore) MarkSeen(ctx context.Context, eventID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+eventID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis event dedup: %w", err)
	}
	return nil
}
