package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry. Carts reference it by ID and snapshot its
// name, price and image when a line is added.
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"_id"`
	Name        string    `gorm:"not null" bson:"name" json:"name"`
	Description string    `gorm:"type:text" bson:"description" json:"description"`
	Price       float64   `gorm:"not null" bson:"price" json:"price"`
	InStock     bool      `gorm:"not null" bson:"in_stock" json:"inStock"`
	Image       string    `bson:"image" json:"image"`
	CreatedAt   time.Time `gorm:"index" bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
