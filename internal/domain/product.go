package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory classifies a catalog entry.
type ProductCategory string

const (
	CategoryFood    ProductCategory = "food"
	CategoryDrink   ProductCategory = "drink"
	CategoryDessert ProductCategory = "dessert"
	CategoryOther   ProductCategory = "other"
)

// ValidCategory reports whether c is a known product category.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryFood, CategoryDrink, CategoryDessert, CategoryOther:
		return true
	}
	return false
}

// Product is a catalog entry owned by exactly one enterprise. Soft-deleted
// products keep their row with is_active false so historical order lines
// stay resolvable.
type Product struct {
	ID           int64           `json:"id"`
	EnterpriseID uuid.UUID       `json:"enterprise_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Category     ProductCategory `json:"category"`
	PhotoURL     string          `json:"photo_url,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
