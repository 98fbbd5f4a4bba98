package models

import "time"

// CartItem defines the struct for the 'cart_items' table.
// A row belongs to either a registered user (user_id set) or a guest
// session (session_id set), never both. Guest rows are claimed by the
// user's cart when the two are merged at login.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	SessionID *string   `json:"sessionId,omitempty" db:"session_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
