package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Cart Handlers (users and guest sessions) ---
//

// cartOwner resolves who the cart belongs to: the authenticated user, or
// the guest session from the X-Session-Id header.
type cartOwner struct {
	userID    *int64
	sessionID *string
}

func (o cartOwner) clause() (string, interface{}) {
	if o.userID != nil {
		return "user_id = ?", *o.userID
	}
	return "session_id = ?", *o.sessionID
}

// resolveCartOwner identifies the caller. createSession controls whether a
// brand-new guest gets a session id minted for them.
func resolveCartOwner(c *gin.Context, createSession bool) (cartOwner, bool) {
	if userID, ok := currentUserID(c); ok {
		return cartOwner{userID: &userID}, true
	}
	if sid := sessionID(c); sid != "" {
		return cartOwner{sessionID: &sid}, true
	}
	if createSession {
		sid := uuid.New().String()
		return cartOwner{sessionID: &sid}, true
	}
	return cartOwner{}, false
}

// CartItemResponse is one line of the cart as shown to the storefront.
// Price and stock are live product values; the snapshot only happens at
// checkout.
type CartItemResponse struct {
	ProductID int64   `json:"productId"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Stock     int     `json:"stock"`
}

// GetCart is the handler for GET /v1/cart
// Works for users and guests. A first-time guest gets a fresh session id
// in the response, which the client must echo in X-Session-Id from then on.
func (h *Handlers) GetCart(c *gin.Context) {
	owner, _ := resolveCartOwner(c, true)

	clause, arg := owner.clause()
	query := `
		SELECT ci.product_id, p.slug, p.name, p.image, p.price, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.` + clause + ` AND p.active = 1`

	rows, err := h.DB.Query(query, arg)
	if err != nil {
		internalError(c, "Failed to query cart items")
		return
	}
	defer rows.Close()

	var items []CartItemResponse
	var subtotal float64
	var totalItems int

	for rows.Next() {
		var item CartItemResponse
		if err := rows.Scan(&item.ProductID, &item.Slug, &item.Name, &item.Image,
			&item.Price, &item.Quantity, &item.Stock); err != nil {
			internalError(c, "Failed to scan cart item")
			return
		}
		item.LineTotal = item.Price * float64(item.Quantity)
		subtotal += item.LineTotal
		totalItems += item.Quantity
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating cart items")
		return
	}

	if items == nil {
		items = []CartItemResponse{}
	}

	resp := gin.H{
		"items":      items,
		"subtotal":   subtotal,
		"totalItems": totalItems,
	}
	if owner.sessionID != nil {
		resp["sessionId"] = *owner.sessionID
	}
	c.JSON(http.StatusOK, resp)
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items
func (h *Handlers) AddToCart(c *gin.Context) {
	owner, _ := resolveCartOwner(c, true)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	var stock int
	err := h.DB.QueryRow(
		"SELECT stock_quantity FROM products WHERE id = ? AND active = 1",
		input.ProductID).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found or not available")
			return
		}
		internalError(c, "Failed to check product")
		return
	}
	if stock < input.Quantity {
		conflict(c, "Insufficient stock")
		return
	}

	// Upsert: adding the same product again accumulates quantity
	_, err = h.DB.Exec(`
		INSERT INTO cart_items (user_id, session_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = NOW()`,
		owner.userID, owner.sessionID, input.ProductID, input.Quantity)
	if err != nil {
		internalError(c, "Failed to update cart")
		return
	}

	resp := gin.H{"message": "Item added to cart"}
	if owner.sessionID != nil {
		resp["sessionId"] = *owner.sessionID
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateCartItemInput defines the JSON for updating an item's quantity.
// Quantity 0 removes the item.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	owner, ok := resolveCartOwner(c, false)
	if !ok {
		notFound(c, "Cart not found")
		return
	}
	productIDStr := c.Param("product_id")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	if input.Quantity == 0 {
		h.removeCartItem(c, owner, productIDStr)
		return
	}

	var stock int
	err := h.DB.QueryRow(
		"SELECT stock_quantity FROM products WHERE id = ? AND active = 1",
		productIDStr).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found")
			return
		}
		internalError(c, "Failed to check product stock")
		return
	}
	if stock < input.Quantity {
		conflict(c, "Not enough stock available for this quantity")
		return
	}

	clause, arg := owner.clause()
	result, err := h.DB.Exec(
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE "+clause+" AND product_id = ?",
		input.Quantity, time.Now(), arg, productIDStr)
	if err != nil {
		internalError(c, "Failed to update item")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Item not found in cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity updated"})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	owner, ok := resolveCartOwner(c, false)
	if !ok {
		notFound(c, "Cart not found")
		return
	}
	h.removeCartItem(c, owner, c.Param("product_id"))
}

func (h *Handlers) removeCartItem(c *gin.Context, owner cartOwner, productIDStr string) {
	clause, arg := owner.clause()
	result, err := h.DB.Exec(
		"DELETE FROM cart_items WHERE "+clause+" AND product_id = ?",
		arg, productIDStr)
	if err != nil {
		internalError(c, "Failed to delete item")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Item not found in cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}

// MergeCartInput carries the guest session whose cart rows should be
// claimed by the now-authenticated user.
type MergeCartInput struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// MergeCart is the handler for POST /v1/cart/merge (login required).
// Called by the storefront right after login: guest session rows move to
// the user's cart, and quantities are summed where both carts hold the
// same product.
func (h *Handlers) MergeCart(c *gin.Context) {
	userID, _ := currentUserID(c)

	var input MergeCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		internalError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		"SELECT product_id, quantity FROM cart_items WHERE session_id = ?",
		input.SessionID)
	if err != nil {
		internalError(c, "Failed to read session cart")
		return
	}

	type sessionRow struct {
		productID int64
		quantity  int
	}
	var sessionItems []sessionRow
	for rows.Next() {
		var r sessionRow
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			rows.Close()
			internalError(c, "Failed to scan session cart item")
			return
		}
		sessionItems = append(sessionItems, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		internalError(c, "Error iterating session cart")
		return
	}

	for _, item := range sessionItems {
		_, err := tx.Exec(`
			INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
			VALUES (?, ?, ?, NOW(), NOW())
			ON DUPLICATE KEY UPDATE
				quantity = quantity + VALUES(quantity),
				updated_at = NOW()`,
			userID, item.productID, item.quantity)
		if err != nil {
			internalError(c, "Failed to merge cart item")
			return
		}
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE session_id = ?", input.SessionID); err != nil {
		internalError(c, "Failed to clear session cart")
		return
	}

	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit merge")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged",
		"merged":  len(sessionItems),
	})
}
