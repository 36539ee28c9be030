package cartstore

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/badwolf/storefront-backend/internal/domain"
)

// Store is the key-value persistence contract for one cart per session
// key. Every read-modify-write sequence in the engine goes through
// CompareAndSwap; Upsert is reserved for Clear, which is commutative and
// safe to apply blindly.
type Store interface {
	// Get returns the stored cart, or (nil, nil) when no record exists.
	Get(ctx context.Context, sessionKey string) (*domain.Cart, error)

	// CompareAndSwap writes the cart conditioned on its Version matching
	// the stored record (Version 0 means "no record existed"). On success
	// the cart's Version is advanced in place. Returns apperr.ErrConflict
	// when another writer got there first.
	CompareAndSwap(ctx context.Context, cart *domain.Cart) error

	// Upsert unconditionally replaces the stored cart.
	Upsert(ctx context.Context, cart *domain.Cart) error
}

// Transactional is implemented by stores that can join a database
// transaction, letting order placement read, write the order and clear
// the cart as one atomic unit.
type Transactional interface {
	WithTx(tx *gorm.DB) Store
}

// CartRecord is the persisted row shape for the gorm-backed store:
// {sessionKey, items[], total, updatedAt, version}.
type CartRecord struct {
	SessionKey string                               `gorm:"primaryKey;size:191"`
	Items      datatypes.JSONSlice[domain.CartItem] `gorm:"not null"`
	Total      float64                              `gorm:"not null"`
	UpdatedAt  time.Time                            `gorm:"not null"`
	Version    int64                                `gorm:"not null"`
}

func (CartRecord) TableName() string { return "carts" }

func recordFromCart(cart *domain.Cart) CartRecord {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartRecord{
		SessionKey: cart.SessionKey,
		Items:      datatypes.NewJSONSlice(items),
		Total:      cart.Total,
		UpdatedAt:  cart.UpdatedAt,
		Version:    cart.Version,
	}
}

func cartFromRecord(rec CartRecord) *domain.Cart {
	items := []domain.CartItem(rec.Items)
	if items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Cart{
		SessionKey: rec.SessionKey,
		Items:      items,
		Total:      rec.Total,
		UpdatedAt:  rec.UpdatedAt,
		Version:    rec.Version,
	}
}
