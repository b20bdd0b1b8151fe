package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgquintero/carrito/internal/catalog/app"
	"github.com/dgquintero/carrito/internal/catalog/domain"
)

// ProductRepo is an in-memory catalog. The storefront is single-binary and
// its product set is seeded at startup, so no durable backend is needed.
type ProductRepo struct {
	mu       sync.RWMutex
	byID     map[string]domain.Product
	ordering []string
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{byID: make(map[string]domain.Product)}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, exists := r.byID[p.ID]; !exists {
		r.ordering = append(r.ordering, p.ID)
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.ordering))
	for _, id := range r.ordering {
		out = append(out, r.byID[id])
	}
	return out, nil
}
