package models

import "time"

// Product is the model for the 'products' table.
// Pointers are used for nullable columns so JSON serialization stays clean.
type Product struct {
	ID             int64    `json:"id" db:"id"`
	CategoryID     *int64   `json:"categoryId,omitempty" db:"category_id"`
	Slug           string   `json:"slug" db:"slug"`
	Name           string   `json:"name" db:"name"`
	Description    string   `json:"description" db:"description"`
	Price          float64  `json:"price" db:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice,omitempty" db:"compare_at_price"`
	Image          string   `json:"image" db:"image"`
	StockQuantity  int      `json:"stock" db:"stock_quantity"`
	Active         bool     `json:"active" db:"active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not DB columns, populated manually)
	Category *Category    `json:"category,omitempty" db:"-"`
	Reviews  *ReviewStats `json:"reviewStats,omitempty" db:"-"`
}
