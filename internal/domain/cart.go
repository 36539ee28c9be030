package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionKey is used when a request does not carry a session id.
const DefaultSessionKey = "guest"

// CartItem is one (product, variant) line in a cart. Name, variant label,
// unit price and image are captured from the catalog at add-time; a later
// catalog price change does not alter lines already in a cart.
type CartItem struct {
	ProductID uuid.UUID  `json:"productId"`
	VariantID *uuid.UUID `json:"variantId,omitempty"`
	Name      string     `json:"name"`
	Variant   string     `json:"variant"`
	Price     float64    `json:"price"`
	Image     string     `json:"image"`
	Quantity  int        `json:"quantity"`
}

// SameLine reports whether the item is identified by the given
// (productID, variantID) key. At most one item per key exists in a cart.
func (i CartItem) SameLine(productID uuid.UUID, variantID *uuid.UUID) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == variantID
	}
	return *i.VariantID == *variantID
}

// Cart is the mutable per-session shopping cart. Version is the
// optimistic-concurrency token managed by the cart store; it never
// crosses the API boundary.
type Cart struct {
	SessionKey string     `json:"sessionId"`
	Items      []CartItem `json:"items"`
	Total      float64    `json:"total"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Version    int64      `json:"-"`
}

// NewCart returns an empty cart for the session key.
func NewCart(sessionKey string) *Cart {
	return &Cart{SessionKey: sessionKey, Items: []CartItem{}, UpdatedAt: time.Now().UTC()}
}

// FindItem returns the index of the line with the given key, or -1.
func (c *Cart) FindItem(productID uuid.UUID, variantID *uuid.UUID) int {
	for idx, it := range c.Items {
		if it.SameLine(productID, variantID) {
			return idx
		}
	}
	return -1
}

// RemoveItem drops the line with the given key. Absent key is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID, variantID *uuid.UUID) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if !it.SameLine(productID, variantID) {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// RecomputeTotal derives Total from the current item set. Every persisted
// cart state must satisfy Total == sum(price * quantity).
func (c *Cart) RecomputeTotal() {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.Total = total
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Snapshot returns a deep copy of the item set, so later cart activity
// cannot retroactively change a placed order.
func (c *Cart) Snapshot() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	for idx := range items {
		if items[idx].VariantID != nil {
			v := *items[idx].VariantID
			items[idx].VariantID = &v
		}
	}
	return items
}
