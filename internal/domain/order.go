package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the allowed status values.
// No transition table is enforced beyond the value set: any status may
// move to any other.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is an immutable record of a placed cart, except for Status and
// UpdatedAt. Items and Total are frozen copies of the cart at creation.
type Order struct {
	ID         uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	SessionKey string                        `gorm:"index" json:"sessionId,omitempty"`
	UserID     string                        `gorm:"index" json:"userId,omitempty"`
	Items      datatypes.JSONSlice[CartItem] `json:"items"`
	Total      float64                       `gorm:"not null" json:"total"`
	Status     OrderStatus                   `gorm:"not null;index" json:"status"`

	CustomerName    string `json:"customerName,omitempty"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	ShippingAddress string `json:"shippingAddress,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }
