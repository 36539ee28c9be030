package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string { return "categories" }
