package models

import "time"

// WishlistItem defines the struct for the 'wishlist_items' table.
// One row per (user_id, product_id) pair, toggled on and off.
type WishlistItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Join (populated manually)
	Product *Product `json:"product,omitempty" db:"-"`
}
