package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/catalog"
	"github.com/badwolf/storefront-backend/internal/data/cartstore"
	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/data/repos/testutil"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
)

type orderFixture struct {
	db       *gorm.DB
	store    cartstore.Store
	carts    CartService
	orders   OrderService
	products map[string]uuid.UUID
}

func newOrderFixture(tb testing.TB, store cartstore.Store, db *gorm.DB) *orderFixture {
	tb.Helper()
	logg := testutil.Logger(tb)

	mug := uuid.New()
	plush := uuid.New()
	lookup := &fakeLookup{lines: map[uuid.UUID]catalog.Line{
		mug:   {Name: "Tardis Mug", VariantLabel: catalog.DefaultVariantLabel, UnitPrice: 10.00},
		plush: {Name: "Dalek Plush", VariantLabel: catalog.DefaultVariantLabel, UnitPrice: 5.00},
	}}

	orderRepo := repos.NewOrderRepo(db, logg)
	return &orderFixture{
		db:       db,
		store:    store,
		carts:    NewCartService(store, lookup, logg, 0),
		orders:   NewOrderService(db, orderRepo, store, logg, 0),
		products: map[string]uuid.UUID{"mug": mug, "plush": plush},
	}
}

func (f *orderFixture) seedCart(tb testing.TB, sessionKey string) {
	tb.Helper()
	ctx := context.Background()
	if _, err := f.carts.AddItem(ctx, sessionKey, f.products["mug"], nil, 2); err != nil {
		tb.Fatalf("seed mug: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, sessionKey, f.products["plush"], nil, 1); err != nil {
		tb.Fatalf("seed plush: %v", err)
	}
}

func assertPlaceOrder(t *testing.T, f *orderFixture) {
	ctx := context.Background()
	f.seedCart(t, "s1")

	order, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{
		SessionKey:      "s1",
		CustomerName:    "Martha Jones",
		CustomerEmail:   "martha@unit.example",
		ShippingAddress: "1 Royal Hope Lane",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("new order status: %v", order.Status)
	}
	if order.Total != 25.00 || len(order.Items) != 2 {
		t.Fatalf("order snapshot wrong: total=%v items=%d", order.Total, len(order.Items))
	}
	if order.CustomerName != "Martha Jones" {
		t.Fatalf("contact fields not carried: %+v", order)
	}

	// The cart was emptied as part of placement.
	cart, err := f.carts.Read(ctx, "s1")
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("cart not emptied: %+v err=%v", cart, err)
	}

	// The snapshot is durable and readable back.
	got, err := f.orders.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Total != 25.00 || len(got.Items) != 2 {
		t.Fatalf("stored snapshot wrong: %+v", got)
	}

	// Placing again against the now-empty cart fails.
	if _, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "s1"}); !errors.Is(err, apperr.ErrEmptyCart) {
		t.Fatalf("repeat placement: want ErrEmptyCart, got %v", err)
	}
	// As does placing for a session that never had a cart.
	if _, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "never"}); !errors.Is(err, apperr.ErrEmptyCart) {
		t.Fatalf("unknown session: want ErrEmptyCart, got %v", err)
	}
}

func TestOrderServicePlaceOrderTransactional(t *testing.T) {
	db := testutil.DB(t)
	store := cartstore.NewGormStore(db, testutil.Logger(t))
	assertPlaceOrder(t, newOrderFixture(t, store, db))
}

func TestOrderServicePlaceOrderSequenced(t *testing.T) {
	// The memory store has no transaction support, so the order is
	// persisted first and the clear retried on its own.
	db := testutil.DB(t)
	assertPlaceOrder(t, newOrderFixture(t, cartstore.NewMemoryStore(), db))
}

func TestOrderServicePlaceOrderClearExhaustion(t *testing.T) {
	// When every clear attempt conflicts, the durable order is returned
	// together with ErrCartNotCleared instead of passing as full success.
	db := testutil.DB(t)
	logg := testutil.Logger(t)
	store := &conflictStore{Store: cartstore.NewMemoryStore()}
	orderRepo := repos.NewOrderRepo(db, logg)
	svc := NewOrderService(db, orderRepo, store, logg, 2)
	ctx := context.Background()

	seed := domain.NewCart("busy")
	seed.Items = append(seed.Items, domain.CartItem{ProductID: uuid.New(), Name: "Widget", Price: 1.00, Quantity: 3})
	seed.RecomputeTotal()
	if err := store.Upsert(ctx, seed); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	order, err := svc.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "busy"})
	if !errors.Is(err, apperr.ErrCartNotCleared) {
		t.Fatalf("want ErrCartNotCleared, got %v", err)
	}
	if order == nil || order.Total != 3.00 {
		t.Fatalf("order should accompany the error: %+v", order)
	}

	// The order row is durable and the cart keeps its items.
	stored, err := orderRepo.GetByID(ctx, nil, order.ID)
	if err != nil || stored == nil {
		t.Fatalf("order not persisted: %v err=%v", stored, err)
	}
	cart, err := store.Get(ctx, "busy")
	if err != nil || len(cart.Items) != 1 {
		t.Fatalf("cart state: %+v err=%v", cart, err)
	}
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	db := testutil.DB(t)
	f := newOrderFixture(t, cartstore.NewGormStore(db, testutil.Logger(t)), db)
	ctx := context.Background()

	f.seedCart(t, "s1")
	order, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "s1"})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	updated, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderStatusShipped {
		t.Fatalf("status not applied: %v", updated.Status)
	}
	if !updated.CreatedAt.Equal(order.CreatedAt) {
		t.Fatalf("created_at must not move")
	}
	if updated.Total != order.Total || len(updated.Items) != len(order.Items) {
		t.Fatalf("snapshot must stay frozen: %+v", updated)
	}

	if _, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatus("teleported")); !errors.Is(err, apperr.ErrInvalidStatus) {
		t.Fatalf("bogus status: want ErrInvalidStatus, got %v", err)
	}
	if _, err := f.orders.UpdateStatus(ctx, uuid.New(), domain.OrderStatusShipped); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown order: want ErrNotFound, got %v", err)
	}
}

func TestOrderServiceListGetDelete(t *testing.T) {
	db := testutil.DB(t)
	f := newOrderFixture(t, cartstore.NewGormStore(db, testutil.Logger(t)), db)
	ctx := context.Background()

	f.seedCart(t, "s1")
	first, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "s1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	f.seedCart(t, "s2")
	if _, err := f.orders.PlaceOrder(ctx, PlaceOrderInput{SessionKey: "s2", UserID: "user-2"}); err != nil {
		t.Fatalf("PlaceOrder second: %v", err)
	}

	all, err := f.orders.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List all: err=%v len=%d", err, len(all))
	}
	mine, err := f.orders.List(ctx, "user-1")
	if err != nil || len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("List by user: err=%v len=%d", err, len(mine))
	}

	if _, err := f.orders.Get(ctx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get unknown: want ErrNotFound, got %v", err)
	}

	if err := f.orders.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.orders.Delete(ctx, first.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
}
