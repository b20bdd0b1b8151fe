package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgquintero/carrito/internal/checkout/domain"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrInProgress = errors.New("checkout already in progress")
)

// CartAccess is the slice of the cart service checkout needs.
type CartAccess interface {
	Snapshot(ctx context.Context) ([]CartLine, error)
	Clear(ctx context.Context) error
}

type CartLine struct {
	ID    string
	Name  string
	Price float64
	Qty   int
}

// CatalogReader resolves a product for display-name refresh. Lines whose
// id is not in the catalog (page-sourced items) keep their captured name.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Currency string
	Amount   int64
}

var ErrProductNotFound = errors.New("product not found")

// Service runs the checkout state machine: Idle -> Processing -> Idle.
// Re-entry while Processing is rejected rather than interleaved.
type Service struct {
	cart    CartAccess
	catalog CatalogReader
	orders  OrderRepo

	maxConcurrent int
	delay         time.Duration

	mu         sync.Mutex
	processing bool
}

func NewService(cart CartAccess, catalog CatalogReader, orders OrderRepo, maxConcurrent int, delay time.Duration) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	return &Service{
		cart:          cart,
		catalog:       catalog,
		orders:        orders,
		maxConcurrent: maxConcurrent,
		delay:         delay,
	}
}

// Checkout prices the cart, records an order, and clears the cart. An
// empty cart is rejected with no mutation.
func (s *Service) Checkout(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return domain.Order{}, ErrInProgress
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	items, err := s.cart.Snapshot(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	lines := make([]domain.OrderLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Qty <= 0 {
				return fmt.Errorf("quantity must be greater than zero: %d", it.Qty)
			}

			name := it.Name
			product, err := s.catalog.GetProduct(gctx, it.ID)
			switch {
			case err == nil:
				name = product.Name
			case errors.Is(err, ErrProductNotFound):
				// page-sourced line, keep the captured name
			default:
				return fmt.Errorf("resolve product %s: %w", it.ID, err)
			}

			lines[idx] = domain.OrderLine{
				ProductID: it.ID,
				Name:      name,
				UnitPrice: it.Price,
				Qty:       it.Qty,
				LineTotal: it.Price * float64(it.Qty),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Order{}, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.Order{}, ctx.Err()
		}
	}

	var total float64
	for _, line := range lines {
		total += line.LineTotal
	}

	order := domain.Order{
		ID:        uuid.NewString(),
		Status:    domain.OrderStatusPaid,
		Lines:     lines,
		Total:     total,
		CreatedAt: time.Now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// ListOrders returns recorded orders, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}
