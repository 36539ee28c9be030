package cartstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
)

func TestMemoryStoreGetAbsent(t *testing.T) {
	s := NewMemoryStore()
	cart, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart for absent record, got %+v", cart)
	}
}

func TestMemoryStoreCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.NewCart("s1")
	cart.Items = []domain.CartItem{{ProductID: uuid.New(), Price: 3, Quantity: 2}}
	cart.RecomputeTotal()

	if err := s.CompareAndSwap(ctx, cart); err != nil {
		t.Fatalf("initial CAS: %v", err)
	}
	if cart.Version != 1 {
		t.Fatalf("version after insert: got %d want 1", cart.Version)
	}

	// A writer holding a stale version must conflict.
	stale := domain.NewCart("s1")
	stale.Version = 0
	if err := s.CompareAndSwap(ctx, stale); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("stale CAS: got %v want ErrConflict", err)
	}

	// The current version writes through.
	cart.Items[0].Quantity = 5
	cart.RecomputeTotal()
	if err := s.CompareAndSwap(ctx, cart); err != nil {
		t.Fatalf("second CAS: %v", err)
	}
	got, err := s.Get(ctx, "s1")
	if err != nil || got == nil {
		t.Fatalf("Get: cart=%v err=%v", got, err)
	}
	if got.Version != 2 || got.Items[0].Quantity != 5 || got.Total != 15 {
		t.Fatalf("stored state: %+v", got)
	}
}

func TestMemoryStoreUpsertAdvancesVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.NewCart("s1")
	cart.Items = []domain.CartItem{{ProductID: uuid.New(), Price: 1, Quantity: 1}}
	cart.RecomputeTotal()
	if err := s.CompareAndSwap(ctx, cart); err != nil {
		t.Fatalf("CAS: %v", err)
	}

	if err := s.Upsert(ctx, domain.NewCart("s1")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// The conditional writer that read version 1 must now conflict.
	cart.Items[0].Quantity = 9
	if err := s.CompareAndSwap(ctx, cart); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("CAS after upsert: got %v want ErrConflict", err)
	}

	got, _ := s.Get(ctx, "s1")
	if len(got.Items) != 0 || got.Total != 0 {
		t.Fatalf("upsert should have emptied the cart: %+v", got)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cart := domain.NewCart("s1")
	cart.Items = []domain.CartItem{{ProductID: uuid.New(), Price: 2, Quantity: 1}}
	cart.RecomputeTotal()
	if err := s.CompareAndSwap(ctx, cart); err != nil {
		t.Fatalf("CAS: %v", err)
	}

	got, _ := s.Get(ctx, "s1")
	got.Items[0].Quantity = 100

	again, _ := s.Get(ctx, "s1")
	if again.Items[0].Quantity != 1 {
		t.Fatalf("store state leaked through Get: %+v", again.Items[0])
	}
}

// Concurrent conditional writers must never lose an update: with a CAS
// retry loop per writer, N increments converge to exactly N.
func TestMemoryStoreConcurrentCAS(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	productID := uuid.New()

	const writers = 25
	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for {
				cart, err := s.Get(ctx, "shared")
				if err != nil {
					t.Errorf("Get: %v", err)
					return
				}
				if cart == nil {
					cart = domain.NewCart("shared")
				}
				if idx := cart.FindItem(productID, nil); idx >= 0 {
					cart.Items[idx].Quantity++
				} else {
					cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Price: 1, Quantity: 1})
				}
				cart.RecomputeTotal()
				err = s.CompareAndSwap(ctx, cart)
				if err == nil {
					return
				}
				if !errors.Is(err, apperr.ErrConflict) {
					t.Errorf("CAS: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	if err != nil || got == nil {
		t.Fatalf("Get: cart=%v err=%v", got, err)
	}
	if got.Items[0].Quantity != writers {
		t.Fatalf("lost updates: quantity=%d want %d", got.Items[0].Quantity, writers)
	}
	if got.Total != float64(writers) {
		t.Fatalf("total: got %v want %d", got.Total, writers)
	}
}
