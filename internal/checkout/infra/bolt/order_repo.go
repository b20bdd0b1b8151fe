package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/dgquintero/carrito/internal/checkout/domain"
)

const bucketName = "orders"

// OrderRepo appends completed orders to a BoltDB bucket. Keys sort by
// creation time so List can walk the bucket backwards for newest-first.
type OrderRepo struct {
	db *bbolt.DB
}

func NewOrderRepo(db *bbolt.DB) (*OrderRepo, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ensure orders bucket: %w", err)
	}
	return &OrderRepo{db: db}, nil
}

func (r *OrderRepo) Create(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	key := fmt.Sprintf("%020d-%s", order.CreatedAt.UnixNano(), order.ID)
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), payload)
	})
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var orders []domain.Order
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var order domain.Order
			if err := json.Unmarshal(v, &order); err != nil {
				return fmt.Errorf("decode order %s: %w", k, err)
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
