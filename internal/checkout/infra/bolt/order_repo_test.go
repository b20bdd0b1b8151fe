package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/dgquintero/carrito/internal/checkout/domain"
)

func openTestRepo(t *testing.T) *OrderRepo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "carrito.db")
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewOrderRepo(db)
	require.NoError(t, err)
	return repo
}

func TestListReturnsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"o1", "o2", "o3"} {
		order := domain.Order{
			ID:        id,
			Status:    domain.OrderStatusPaid,
			Total:     float64(i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, order))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "o3", got[0].ID)
	require.Equal(t, "o1", got[2].ID)
}

func TestListEmptyBucket(t *testing.T) {
	repo := openTestRepo(t)
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCreateRoundTripsLines(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	in := domain.Order{
		ID:     "o1",
		Status: domain.OrderStatusPaid,
		Lines: []domain.OrderLine{
			{ProductID: "camiseta-azul", Name: "Camiseta Azul", UnitPrice: 35000, Qty: 2, LineTotal: 70000},
		},
		Total:     70000,
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, in.Lines, got[0].Lines)
	require.True(t, got[0].CreatedAt.Equal(in.CreatedAt))
}
