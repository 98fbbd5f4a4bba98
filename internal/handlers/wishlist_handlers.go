package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Wishlist Handlers ---
//

// ToggleWishlistInput is the JSON body for POST /v1/wishlist/toggle
type ToggleWishlistInput struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// ToggleWishlist is the handler for POST /v1/wishlist/toggle (login
// required). Adds the product if absent, removes it if present, and tells
// the client which happened.
func (h *Handlers) ToggleWishlist(c *gin.Context) {
	userID, _ := currentUserID(c)

	var input ToggleWishlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	var productID int64
	err := h.DB.QueryRow(
		"SELECT id FROM products WHERE id = ? AND active = 1", input.ProductID).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found")
			return
		}
		internalError(c, "Failed to look up product")
		return
	}

	result, err := h.DB.Exec(
		"DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?",
		userID, productID)
	if err != nil {
		internalError(c, "Failed to update wishlist")
		return
	}
	if affected, _ := result.RowsAffected(); affected > 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist", "wishlisted": false})
		return
	}

	if _, err := h.DB.Exec(
		"INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?)",
		userID, productID); err != nil {
		// Concurrent toggle won the insert; treat it as already wishlisted
		if isDuplicateKey(err) {
			c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "wishlisted": true})
			return
		}
		internalError(c, "Failed to update wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "wishlisted": true})
}

// GetWishlist is the handler for GET /v1/wishlist (login required)
func (h *Handlers) GetWishlist(c *gin.Context) {
	userID, _ := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.id, p.category_id, p.slug, p.name, p.description, p.price,
		       p.compare_at_price, p.image, p.stock_quantity, p.active,
		       p.created_at, p.updated_at
		FROM wishlist_items w
		JOIN products p ON w.product_id = p.id
		WHERE w.user_id = ? AND p.active = 1
		ORDER BY w.created_at DESC`, userID)
	if err != nil {
		internalError(c, "Failed to fetch wishlist")
		return
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		var p models.Product
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.CategoryID, &p.Slug, &p.Name, &p.Description, &p.Price,
			&p.CompareAtPrice, &p.Image, &p.StockQuantity, &p.Active,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			internalError(c, "Failed to scan wishlist item")
			return
		}
		item.Product = &p
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": items})
}
