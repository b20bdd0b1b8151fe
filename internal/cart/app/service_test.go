package app

import (
	"context"
	"testing"

	"github.com/dgquintero/carrito/internal/cart/domain"
)

// fakeStore records what the service persists.
type fakeStore struct {
	loaded  domain.Cart
	saved   domain.Cart
	saves   int
	cleared int
}

func (f *fakeStore) Load(ctx context.Context) (domain.Cart, error) { return f.loaded, nil }
func (f *fakeStore) Save(ctx context.Context, cart domain.Cart) error {
	f.saved = cart
	f.saves++
	return nil
}
func (f *fakeStore) Clear(ctx context.Context) error {
	f.cleared++
	f.saved = nil
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	svc, err := NewService(context.Background(), store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestAddItemMergesByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Name: "X", Price: 10, Qty: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Qty: 3}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	s := svc.Summary()
	if len(s.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(s.Items))
	}
	if s.Items[0].Qty != 5 {
		t.Errorf("qty = %d, want 5", s.Items[0].Qty)
	}
	if s.Items[0].Name != "X" {
		t.Errorf("merge must not overwrite the name, got %q", s.Items[0].Name)
	}
}

func TestAddItemDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("id falls back to name", func(t *testing.T) {
		if err := svc.AddItem(ctx, AddItemInput{Name: "Blue  Shirt"}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		s := svc.Summary()
		if s.Items[0].ID != "blue-shirt" {
			t.Errorf("id = %q, want blue-shirt", s.Items[0].ID)
		}
		if s.Items[0].Qty != 1 {
			t.Errorf("qty defaults to 1, got %d", s.Items[0].Qty)
		}
		if s.Items[0].Price != 0 {
			t.Errorf("price defaults to 0, got %v", s.Items[0].Price)
		}
	})

	t.Run("negative price -> 0", func(t *testing.T) {
		if err := svc.AddItem(ctx, AddItemInput{ID: "neg", Price: -5}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		s := svc.Summary()
		if got := s.Items[s.Items.Find("neg")].Price; got != 0 {
			t.Errorf("price = %v, want 0", got)
		}
	})

	t.Run("missing name -> Producto", func(t *testing.T) {
		if err := svc.AddItem(ctx, AddItemInput{ID: "solo-id"}); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		s := svc.Summary()
		if got := s.Items[s.Items.Find("solo-id")].Name; got != "Producto" {
			t.Errorf("name = %q, want Producto", got)
		}
	})

	t.Run("empty id and name -> invalid", func(t *testing.T) {
		if err := svc.AddItem(ctx, AddItemInput{ID: "  ", Name: " "}); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	t.Run("clamps to 1", func(t *testing.T) {
		for _, q := range []int{0, -1, -100} {
			if err := svc.UpdateQuantity(ctx, "x", q); err != nil {
				t.Fatalf("UpdateQuantity(%d): %v", q, err)
			}
			if got := svc.Summary().Items[0].Qty; got != 1 {
				t.Errorf("qty after UpdateQuantity(%d) = %d, want 1", q, got)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if err := svc.UpdateQuantity(ctx, "x", 7); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}
		first := svc.Summary()
		if err := svc.UpdateQuantity(ctx, "x", 7); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}
		second := svc.Summary()
		if first.Count != second.Count || first.Total != second.Total {
			t.Errorf("repeat update changed state: %+v vs %+v", first, second)
		}
	})

	t.Run("unknown id is a no-op without persist", func(t *testing.T) {
		before := store.saves
		if err := svc.UpdateQuantity(ctx, "nope", 3); err != nil {
			t.Fatalf("UpdateQuantity: %v", err)
		}
		if store.saves != before {
			t.Error("unknown id must not persist")
		}
	})
}

func TestAdjustQuantityClampsAtOne(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.AdjustQuantity(ctx, "x", -1); err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if got := svc.Summary().Items[0].Qty; got != 1 {
		t.Errorf("qty = %d, want 1", got)
	}
	if err := svc.AdjustQuantity(ctx, "x", +1); err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if got := svc.Summary().Items[0].Qty; got != 2 {
		t.Errorf("qty = %d, want 2", got)
	}
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.RemoveItem(ctx, "x"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if got := svc.Summary().Count; got != 0 {
		t.Errorf("count = %d, want 0", got)
	}

	// absent id is not an error
	if err := svc.RemoveItem(ctx, "ghost"); err != nil {
		t.Fatalf("RemoveItem(ghost): %v", err)
	}
}

func TestClearDropsSlot(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Price: 10, Qty: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.cleared != 1 {
		t.Errorf("store.Clear called %d times, want 1", store.cleared)
	}
	if got := svc.Summary().Count; got != 0 {
		t.Errorf("count after clear = %d, want 0", got)
	}
}

func TestSummaryScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.AddItem(ctx, AddItemInput{ID: "a", Price: 1000, Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.AddItem(ctx, AddItemInput{ID: "b", Price: 2500, Qty: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	s := svc.Summary()
	if s.Total != 6000 {
		t.Errorf("total = %v, want 6000", s.Total)
	}
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
}

func TestSubscriberSeesEverySave(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var counts []int
	svc.Subscribe(func(s domain.Summary) { counts = append(counts, s.Count) })

	if err := svc.AddItem(ctx, AddItemInput{ID: "x", Qty: 2}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, "x", 5); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	want := []int{2, 5, 0}
	if len(counts) != len(want) {
		t.Fatalf("subscriber fired %d times, want %d", len(counts), len(want))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("notification %d = %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestNewServiceLoadsExistingCart(t *testing.T) {
	store := &fakeStore{loaded: domain.Cart{{ID: "x", Name: "X", Price: 3, Qty: 4}}}
	svc, err := NewService(context.Background(), store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	s := svc.Summary()
	if s.Count != 4 || s.Total != 12 {
		t.Errorf("summary = %+v", s)
	}
}
