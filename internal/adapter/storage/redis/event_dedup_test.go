package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDedupStore_SeenAfterMark(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewEventDedupStore(client)
	ctx := context.Background()

	seen, err := store.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen, "unknown event is not seen")

	require.NoError(t, store.MarkSeen(ctx, "evt_1", time.Hour))

	seen, err = store.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen, "marked event is seen within TTL")
}

func TestEventDedupStore_SeenIsReadOnly(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewEventDedupStore(client)
	ctx := context.Background()

	// Checking must never record the event: a delivery that later fails
	// would otherwise look like a duplicate on redelivery.
	for i := 0; i < 3; i++ {
		seen, err := store.Seen(ctx, "evt_2")
		require.NoError(t, err)
		assert.False(t, seen)
	}
}

func TestEventDedupStore_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewEventDedupStore(client)
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, "evt_3", time.Second))

	s.FastForward(2 * time.Second)

	seen, err := store.Seen(ctx, "evt_3")
	require.NoError(t, err)
	assert.False(t, seen, "event is forgotten once the window lapses")
}

func TestEventDedupStore_DistinctEvents(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewEventDedupStore(client)
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, "evt_a", time.Hour))

	seen, err := store.Seen(ctx, "evt_b")
	require.NoError(t, err)
	assert.False(t, seen, "marking one event does not mark another")
}
