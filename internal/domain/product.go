package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string           `gorm:"not null;index" json:"name"`
	Description string           `json:"description"`
	Price       float64          `gorm:"not null" json:"price"`
	Image       string           `json:"image"`
	Category    string           `gorm:"index" json:"category"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductVariant belongs to exactly one product. Its price overrides the
// product base price when the variant is selected.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	Name      string    `gorm:"not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Stock     int       `json:"stock"`
}

func (ProductVariant) TableName() string { return "product_variants" }
