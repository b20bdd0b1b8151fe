package app

import (
	"context"

	"github.com/dgquintero/carrito/internal/cart/domain"
)

// Store persists the cart under a single fixed slot.
//
// Load must treat a missing slot or an undecodable value as an empty cart
// with a nil error; the widget never surfaces decode failures. Clear drops
// the slot entirely, which is indistinguishable from a saved empty list on
// the next Load.
type Store interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Clear(ctx context.Context) error
}
