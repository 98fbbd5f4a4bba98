package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Review Handlers ---
//

// CreateReviewInput is the JSON body for POST /v1/reviews/product/:id
type CreateReviewInput struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Title   *string `json:"title"`
	Comment string  `json:"comment" binding:"required"`
}

// CreateReview is the handler for POST /v1/reviews/product/:id (login
// required). One review per user per product; the check runs under a row
// lock and the unique key on (product_id, user_id) is the backstop.
func (h *Handlers) CreateReview(c *gin.Context) {
	userID, _ := currentUserID(c)

	var input CreateReviewInput
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

	// 1. --- Verify the product exists ---
	var productID int64
	err = tx.QueryRow(
		"SELECT id FROM products WHERE id = ? AND active = 1", c.Param("id")).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found")
			return
		}
		internalError(c, "Failed to look up product")
		return
	}

	// 2. --- One review per user per product ---
	var existingID int64
	err = tx.QueryRow(
		"SELECT id FROM reviews WHERE product_id = ? AND user_id = ? FOR UPDATE",
		productID, userID).Scan(&existingID)
	if err == nil {
		conflict(c, "You have already reviewed this product")
		return
	}
	if err != sql.ErrNoRows {
		internalError(c, "Failed to check existing review")
		return
	}

	// 3. --- Verified purchase? ---
	// True when the user has a non-cancelled order containing the product.
	var verified bool
	err = tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = ? AND oi.product_id = ? AND o.status != ?
		)`, userID, productID, models.OrderStatusCancelled).Scan(&verified)
	if err != nil {
		internalError(c, "Failed to check purchase history")
		return
	}

	// 4. --- Insert ---
	result, err := tx.Exec(`
		INSERT INTO reviews (product_id, user_id, rating, title, comment, status, verified_purchase)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		productID, userID, input.Rating, input.Title, input.Comment,
		models.ReviewStatusApproved, verified)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "You have already reviewed this product")
			return
		}
		internalError(c, "Failed to save review")
		return
	}
	reviewID, _ := result.LastInsertId()

	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Review submitted",
		"reviewId":         reviewID,
		"verifiedPurchase": verified,
	})
}

// GetProductReviews is the handler for GET /v1/reviews/product/:id (public)
// Only approved reviews are visible here.
func (h *Handlers) GetProductReviews(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT r.id, r.product_id, r.user_id, r.rating, r.title, r.comment,
		       r.status, r.verified_purchase, r.created_at, r.updated_at, u.full_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.product_id = ? AND r.status = ?
		ORDER BY r.created_at DESC`,
		c.Param("id"), models.ReviewStatusApproved)
	if err != nil {
		internalError(c, "Failed to fetch reviews")
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Title,
			&r.Comment, &r.Status, &r.VerifiedPurchase, &r.CreatedAt,
			&r.UpdatedAt, &r.AuthorName); err != nil {
			internalError(c, "Failed to scan review")
			return
		}
		reviews = append(reviews, r)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// reviewStatsForProduct aggregates the approved ratings of a product.
func (h *Handlers) reviewStatsForProduct(productID int64) (models.ReviewStats, error) {
	rows, err := h.DB.Query(
		"SELECT rating FROM reviews WHERE product_id = ? AND status = ?",
		productID, models.ReviewStatusApproved)
	if err != nil {
		return models.ReviewStats{}, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return models.ReviewStats{}, err
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return models.ReviewStats{}, err
	}

	return models.ComputeReviewStats(ratings), nil
}

// GetReviewStats is the handler for GET /v1/reviews/product/:id/stats (public)
func (h *Handlers) GetReviewStats(c *gin.Context) {
	var productID int64
	err := h.DB.QueryRow(
		"SELECT id FROM products WHERE id = ?", c.Param("id")).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Product not found")
			return
		}
		internalError(c, "Failed to look up product")
		return
	}

	stats, err := h.reviewStatsForProduct(productID)
	if err != nil {
		internalError(c, "Failed to compute review stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetAllReviews is the handler for GET /v1/admin/reviews (admin only)
// Supports ?status= filtering for the moderation queue.
func (h *Handlers) GetAllReviews(c *gin.Context) {
	query := `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.title, r.comment,
		       r.status, r.verified_purchase, r.created_at, r.updated_at, u.full_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id`
	args := []interface{}{}

	if status := c.Query("status"); status != "" {
		query += " WHERE r.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY r.created_at DESC LIMIT 200"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		internalError(c, "Failed to fetch reviews")
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Title,
			&r.Comment, &r.Status, &r.VerifiedPurchase, &r.CreatedAt,
			&r.UpdatedAt, &r.AuthorName); err != nil {
			internalError(c, "Failed to scan review")
			return
		}
		reviews = append(reviews, r)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ModerateReviewInput is the JSON body for the admin moderation patch.
type ModerateReviewInput struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// ModerateReview is the handler for PATCH /v1/admin/reviews/:id (admin only)
func (h *Handlers) ModerateReview(c *gin.Context) {
	var input ModerateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.DB.Exec(
		"UPDATE reviews SET status = ? WHERE id = ?", input.Status, c.Param("id"))
	if err != nil {
		internalError(c, "Failed to update review")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		notFound(c, "Review not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review " + input.Status})
}

// DeleteReview is the handler for DELETE /v1/admin/reviews/:id (admin only)
func (h *Handlers) DeleteReview(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM reviews WHERE id = ?", c.Param("id"))
	if err != nil {
		internalError(c, "Failed to delete review")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		notFound(c, "Review not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
