package app

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/dgquintero/carrito/internal/cart/domain"
)

var ErrInvalidInput = errors.New("invalid input")

const defaultName = "Producto"

// Service owns the authoritative in-memory cart and writes it through to
// the store after every mutation. All mutations hold the mutex for the
// whole read-modify-write, so concurrent handlers cannot lose updates.
type Service struct {
	mu    sync.Mutex
	store Store
	cart  domain.Cart
	subs  []func(domain.Summary)
}

// NewService loads the persisted cart once; later operations never re-read
// the store.
func NewService(ctx context.Context, store Store) (*Service, error) {
	cart, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Service{store: store, cart: cart}, nil
}

// Subscribe registers a hook invoked with a fresh summary after every
// successful persist. The badge recomputes its count through this.
func (s *Service) Subscribe(fn func(domain.Summary)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

type AddItemInput struct {
	ID    string
	Name  string
	Price float64
	Qty   int
}

// AddItem merges into an existing line by normalized id, or appends a new
// one. The id falls back to the name when absent; both absent is invalid.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) error {
	nid := domain.NormalizeID(in.ID)
	if nid == "" {
		nid = domain.NormalizeID(in.Name)
	}
	if nid == "" {
		return ErrInvalidInput
	}

	qty := in.Qty
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.cart.Find(nid); idx >= 0 {
		s.cart[idx].Qty += qty
		return s.persist(ctx)
	}

	name := in.Name
	if name == "" {
		name = defaultName
	}
	price := in.Price
	if price < 0 || math.IsNaN(price) {
		price = 0
	}

	s.cart = append(s.cart, domain.LineItem{ID: nid, Name: name, Price: price, Qty: qty})
	return s.persist(ctx)
}

// RemoveItem drops the line with the given id. An absent id is not an error.
func (s *Service) RemoveItem(ctx context.Context, id string) error {
	nid := domain.NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, it := range s.cart {
		if it.ID != nid {
			kept = append(kept, it)
		}
	}
	s.cart = kept
	return s.persist(ctx)
}

// UpdateQuantity sets the line's quantity to max(1, qty). Unknown ids are
// a no-op and do not persist.
func (s *Service) UpdateQuantity(ctx context.Context, id string, qty int) error {
	nid := domain.NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.Find(nid)
	if idx < 0 {
		return nil
	}
	s.cart[idx].Qty = max(1, qty)
	return s.persist(ctx)
}

// AdjustQuantity shifts the line's quantity by delta, clamped at 1. The
// increment and decrement controls go through here so the read-modify-write
// stays under one lock.
func (s *Service) AdjustQuantity(ctx context.Context, id string, delta int) error {
	nid := domain.NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.Find(nid)
	if idx < 0 {
		return nil
	}
	s.cart[idx].Qty = max(1, s.cart[idx].Qty+delta)
	return s.persist(ctx)
}

// Clear drops the persisted slot and empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.cart = nil
	s.notify()
	return nil
}

// Summary aggregates the current cart. Pure, no side effects.
func (s *Service) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot().Summarize()
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		return err
	}
	s.notify()
	return nil
}

// snapshot copies the cart so callers never alias the internal slice.
func (s *Service) snapshot() domain.Cart {
	out := make(domain.Cart, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Service) notify() {
	summary := s.snapshot().Summarize()
	for _, fn := range s.subs {
		fn(summary)
	}
}
