package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/data/repos/testutil"
	"github.com/badwolf/storefront-backend/internal/domain"
)

func TestProductRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewProductRepo(db, testutil.Logger(t))

	p1 := &domain.Product{
		Name:        "Sonic Screwdriver",
		Description: "Multi-purpose tool",
		Price:       49.99,
		Category:    "gadgets",
		Variants: []domain.ProductVariant{
			{Name: "Classic", Price: 49.99, Stock: 10},
			{Name: "Deluxe", Price: 79.99, Stock: 3},
		},
	}
	p2 := &domain.Product{Name: "Tardis Mug", Description: "Bigger on the inside", Price: 12.50, Category: "kitchen"}
	p3 := &domain.Product{Name: "Dalek Plush", Description: "Exterminate softly", Price: 24.00, Category: "toys"}
	for _, p := range []*domain.Product{p1, p2, p3} {
		if err := repo.Create(ctx, tx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, tx, p1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if len(got.Variants) != 2 {
		t.Fatalf("variants not preloaded: %+v", got.Variants)
	}

	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID of unknown id: got=%v err=%v", got, err)
	}

	rows, total, err := repo.List(ctx, tx, ProductFilter{})
	if err != nil || total != 3 || len(rows) != 3 {
		t.Fatalf("List all: err=%v total=%d len=%d", err, total, len(rows))
	}

	rows, total, err = repo.List(ctx, tx, ProductFilter{Category: "kitchen"})
	if err != nil || total != 1 || rows[0].Name != "Tardis Mug" {
		t.Fatalf("List by category: err=%v total=%d", err, total)
	}

	// "all" is not a category filter.
	_, total, err = repo.List(ctx, tx, ProductFilter{Category: "all"})
	if err != nil || total != 3 {
		t.Fatalf("List category=all: err=%v total=%d", err, total)
	}

	// Search is case-insensitive across name and description.
	rows, total, err = repo.List(ctx, tx, ProductFilter{Search: "EXTERMINATE"})
	if err != nil || total != 1 || rows[0].Name != "Dalek Plush" {
		t.Fatalf("List by search: err=%v total=%d", err, total)
	}

	rows, total, err = repo.List(ctx, tx, ProductFilter{Limit: 2})
	if err != nil || total != 3 || len(rows) != 2 {
		t.Fatalf("List with limit: err=%v total=%d len=%d", err, total, len(rows))
	}

	affected, err := repo.UpdateFields(ctx, tx, p2.ID, map[string]interface{}{"price": 14.00})
	if err != nil || affected != 1 {
		t.Fatalf("UpdateFields: affected=%d err=%v", affected, err)
	}
	if got, _ := repo.GetByID(ctx, tx, p2.ID); got.Price != 14.00 {
		t.Fatalf("price not updated: %v", got.Price)
	}
	if affected, err := repo.UpdateFields(ctx, tx, uuid.New(), map[string]interface{}{"price": 1.0}); err != nil || affected != 0 {
		t.Fatalf("UpdateFields unknown id: affected=%d err=%v", affected, err)
	}

	affected, err = repo.Delete(ctx, tx, p3.ID)
	if err != nil || affected != 1 {
		t.Fatalf("Delete: affected=%d err=%v", affected, err)
	}
	if affected, err := repo.Delete(ctx, tx, p3.ID); err != nil || affected != 0 {
		t.Fatalf("Delete twice: affected=%d err=%v", affected, err)
	}
}
