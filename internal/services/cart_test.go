package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/catalog"
	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/platform/logger"
)

// fakeLookup resolves lines from a static map keyed by product id.
type fakeLookup struct {
	lines map[uuid.UUID]catalog.Line
}

func (f *fakeLookup) ResolveLine(_ context.Context, productID uuid.UUID, variantID *uuid.UUID) (*catalog.Line, error) {
	line, ok := f.lines[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	if variantID != nil {
		line.VariantLabel = "Variant"
		line.UnitPrice = line.UnitPrice * 2
	}
	return &line, nil
}

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logg, err := logger.New("dev")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	tb.Cleanup(logg.Sync)
	return logg
}

func cartFixture(tb testing.TB) (CartService, cartstore.Store, uuid.UUID) {
	tb.Helper()
	store := cartstore.NewMemoryStore()
	productID := uuid.New()
	lookup := &fakeLookup{lines: map[uuid.UUID]catalog.Line{
		productID: {Name: "Widget", VariantLabel: catalog.DefaultVariantLabel, UnitPrice: 10.00, Image: "/img/widget.png"},
	}}
	return NewCartService(store, lookup, testLogger(tb), 0), store, productID
}

func TestCartServiceAddItem(t *testing.T) {
	svc, _, productID := cartFixture(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "s1", productID, nil, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.Total != 20.00 {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	// Same line merges instead of appending.
	cart, err = svc.AddItem(ctx, "s1", productID, nil, 3)
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 || cart.Total != 50.00 {
		t.Fatalf("lines not merged: %+v", cart)
	}

	// A variant of the same product is a distinct line.
	vid := uuid.New()
	cart, err = svc.AddItem(ctx, "s1", productID, &vid, 1)
	if err != nil {
		t.Fatalf("AddItem variant: %v", err)
	}
	if len(cart.Items) != 2 || cart.Total != 70.00 {
		t.Fatalf("variant should be its own line: %+v", cart)
	}

	// Non-positive quantity is clamped to one.
	cart, err = svc.AddItem(ctx, "s2", productID, nil, 0)
	if err != nil || cart.Items[0].Quantity != 1 {
		t.Fatalf("quantity not clamped: %+v err=%v", cart, err)
	}

	if _, err := svc.AddItem(ctx, "s1", uuid.New(), nil, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
}

func TestCartServiceSetQuantity(t *testing.T) {
	svc, _, productID := cartFixture(t)
	ctx := context.Background()

	if _, err := svc.SetQuantity(ctx, "ghost", productID, nil, 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing cart: want ErrNotFound, got %v", err)
	}

	if _, err := svc.AddItem(ctx, "s1", productID, nil, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, "s1", productID, nil, 7)
	if err != nil || cart.Items[0].Quantity != 7 || cart.Total != 70.00 {
		t.Fatalf("SetQuantity: %+v err=%v", cart, err)
	}

	// Absent line is a no-op.
	cart, err = svc.SetQuantity(ctx, "s1", uuid.New(), nil, 4)
	if err != nil || len(cart.Items) != 1 || cart.Items[0].Quantity != 7 {
		t.Fatalf("absent line should be a no-op: %+v err=%v", cart, err)
	}

	// Zero removes the line.
	cart, err = svc.SetQuantity(ctx, "s1", productID, nil, 0)
	if err != nil || len(cart.Items) != 0 || cart.Total != 0 {
		t.Fatalf("zero quantity should remove: %+v err=%v", cart, err)
	}
}

func TestCartServiceClearAndRead(t *testing.T) {
	svc, store, productID := cartFixture(t)
	ctx := context.Background()

	// Reading an unknown session synthesizes, never persists.
	cart, err := svc.Read(ctx, "fresh")
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("Read fresh: %+v err=%v", cart, err)
	}
	if stored, _ := store.Get(ctx, "fresh"); stored != nil {
		t.Fatalf("Read should not persist")
	}

	if _, err := svc.AddItem(ctx, "s1", productID, nil, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cart, err = svc.Clear(ctx, "s1")
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("Clear: %+v err=%v", cart, err)
	}
	// Clearing twice is fine.
	if _, err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear twice: %v", err)
	}
	cart, err = svc.Read(ctx, "s1")
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("Read after clear: %+v err=%v", cart, err)
	}

	// Empty session key falls back to the shared guest cart.
	if _, err := svc.AddItem(ctx, "", productID, nil, 1); err != nil {
		t.Fatalf("AddItem guest: %v", err)
	}
	cart, err = svc.Read(ctx, domain.DefaultSessionKey)
	if err != nil || len(cart.Items) != 1 {
		t.Fatalf("guest cart: %+v err=%v", cart, err)
	}
}

func TestCartServiceConcurrentAdds(t *testing.T) {
	store := cartstore.NewMemoryStore()
	productID := uuid.New()
	lookup := &fakeLookup{lines: map[uuid.UUID]catalog.Line{
		productID: {Name: "Widget", VariantLabel: catalog.DefaultVariantLabel, UnitPrice: 1.00},
	}}
	svc := NewCartService(store, lookup, testLogger(t), 100)

	const writers = 25
	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem(ctx, "busy", productID, nil, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AddItem: %v", err)
	}

	cart, err := svc.Read(ctx, "busy")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != writers {
		t.Fatalf("lost update: %+v", cart)
	}
	if cart.Total != float64(writers) {
		t.Fatalf("total out of sync: %v", cart.Total)
	}
}

// conflictStore reports a write conflict on every conditional write.
type conflictStore struct {
	cartstore.Store
}

func (c *conflictStore) CompareAndSwap(_ context.Context, cart *domain.Cart) error {
	return fmt.Errorf("%w: cart %q", apperr.ErrConflict, cart.SessionKey)
}

func TestCartServiceRetryExhaustion(t *testing.T) {
	productID := uuid.New()
	lookup := &fakeLookup{lines: map[uuid.UUID]catalog.Line{
		productID: {Name: "Widget", UnitPrice: 1.00},
	}}
	store := &conflictStore{Store: cartstore.NewMemoryStore()}
	svc := NewCartService(store, lookup, testLogger(t), 3)

	_, err := svc.AddItem(context.Background(), "s1", productID, nil, 1)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("want ErrConflict after exhaustion, got %v", err)
	}
}
