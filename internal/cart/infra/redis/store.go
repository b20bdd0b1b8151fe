package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/dgquintero/carrito/internal/cart/domain"
)

const slotKey = "cart_v1"

// Store keeps the cart under a single Redis key.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Load reads the slot. A missing key or an undecodable value both come
// back as an empty cart with no error.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	payload, err := s.client.Get(ctx, slotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, nil
	}
	return cart, nil
}

func (s *Store) Save(ctx context.Context, cart domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, slotKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, slotKey).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
