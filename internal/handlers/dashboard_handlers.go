package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Admin Dashboard ---
//

// GetDashboardStats is the handler for GET /v1/admin/dashboard (admin only)
// One round of aggregates for the back-office landing page.
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	// Orders per status
	ordersByStatus := map[string]int{}
	rows, err := h.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		internalError(c, "Failed to fetch order stats")
		return
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			internalError(c, "Failed to scan order stats")
			return
		}
		ordersByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		internalError(c, "Error iterating order stats")
		return
	}

	// Revenue counts everything that hasn't been cancelled
	var totalRevenue float64
	err = h.DB.QueryRow(
		"SELECT COALESCE(SUM(total), 0) FROM orders WHERE status != ?",
		models.OrderStatusCancelled).Scan(&totalRevenue)
	if err != nil {
		internalError(c, "Failed to fetch revenue")
		return
	}

	var pendingReviews int
	err = h.DB.QueryRow(
		"SELECT COUNT(*) FROM reviews WHERE status = ?",
		models.ReviewStatusPending).Scan(&pendingReviews)
	if err != nil {
		internalError(c, "Failed to fetch review stats")
		return
	}

	var activeProducts int
	err = h.DB.QueryRow(
		"SELECT COUNT(*) FROM products WHERE active = 1").Scan(&activeProducts)
	if err != nil {
		internalError(c, "Failed to fetch product stats")
		return
	}

	var subscribers int
	err = h.DB.QueryRow(
		"SELECT COUNT(*) FROM newsletter_subscribers WHERE unsubscribed_at IS NULL",
	).Scan(&subscribers)
	if err != nil {
		internalError(c, "Failed to fetch subscriber stats")
		return
	}

	var lowStock int
	err = h.DB.QueryRow(
		"SELECT COUNT(*) FROM products WHERE active = 1 AND stock_quantity < 5",
	).Scan(&lowStock)
	if err != nil {
		internalError(c, "Failed to fetch stock stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ordersByStatus":        ordersByStatus,
		"totalRevenue":          totalRevenue,
		"pendingReviews":        pendingReviews,
		"activeProducts":        activeProducts,
		"newsletterSubscribers": subscribers,
		"lowStockProducts":      lowStock,
	})
}
