package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/dgquintero/carrito/internal/cart/domain"
)

const (
	bucketName = "cart"
	slotKey    = "cart_v1"
)

// Store keeps the cart under a single key in a BoltDB bucket.
type Store struct {
	db *bbolt.DB
}

func NewStore(db *bbolt.DB) (*Store, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ensure cart bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the slot. A missing key or a value that fails to decode both
// come back as an empty cart with no error.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cart domain.Cart
	err := s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(bucketName)).Get([]byte(slotKey))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &cart); err != nil {
			cart = nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

func (s *Store) Save(ctx context.Context, cart domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(slotKey), payload)
	})
}

// Clear deletes the slot key outright.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(slotKey))
	})
}
