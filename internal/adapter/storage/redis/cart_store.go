package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Carts idle longer than this are dropped.
const cartTTL = 14 * 24 * time.Hour

// CartStore implements ports.CartStore using a JSON document per user.
type CartStore struct {
	client *goredis.Client
	prefix string
}

// NewCartStore creates a new Redis-backed cart store.
func NewCartStore(client *goredis.Client) *CartStore {
	return &CartStore{
		client: client,
		prefix: "cart:",
	}
}

// Get retrieves a user's cart. Returns nil, nil when no cart exists.
func (s *CartStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	val, err := s.client.Get(ctx, s.prefix+userID.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis cart get: %w", err)
	}

	cart := &domain.Cart{}
	if err := json.Unmarshal(val, cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

// Save stores the cart document, refreshing its TTL.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+cart.UserID.String(), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("redis cart set: %w", err)
	}
	return nil
}

// Clear removes the user's cart.
func (s *CartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.prefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("redis cart del: %w", err)
	}
	return nil
}
