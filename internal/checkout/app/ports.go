package app

import (
	"context"

	"github.com/dgquintero/carrito/internal/checkout/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, order domain.Order) error
	// List returns orders newest first.
	List(ctx context.Context) ([]domain.Order, error)
}
