package adapter

import (
	"context"

	cartapp "github.com/dgquintero/carrito/internal/cart/app"
	checkoutapp "github.com/dgquintero/carrito/internal/checkout/app"
)

type CartServiceAccess struct {
	svc *cartapp.Service
}

func NewCartServiceAccess(svc *cartapp.Service) *CartServiceAccess {
	return &CartServiceAccess{svc: svc}
}

func (a *CartServiceAccess) Snapshot(ctx context.Context) ([]checkoutapp.CartLine, error) {
	summary := a.svc.Summary()

	lines := make([]checkoutapp.CartLine, 0, len(summary.Items))
	for _, it := range summary.Items {
		lines = append(lines, checkoutapp.CartLine{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price,
			Qty:   it.Qty,
		})
	}
	return lines, nil
}

func (a *CartServiceAccess) Clear(ctx context.Context) error {
	return a.svc.Clear(ctx)
}
