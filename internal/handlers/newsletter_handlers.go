package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Newsletter Handlers ---
//

// NewsletterInput is the JSON body for subscribe and unsubscribe.
type NewsletterInput struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeNewsletter is the handler for POST /v1/newsletter/subscribe
// (public). Subscribing an already-subscribed address is a no-op success,
// and a previously unsubscribed address is reactivated.
func (h *Handlers) SubscribeNewsletter(c *gin.Context) {
	var input NewsletterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := h.DB.Exec(`
		INSERT INTO newsletter_subscribers (email, subscribed_at)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE subscribed_at = VALUES(subscribed_at), unsubscribed_at = NULL`,
		email, time.Now())
	if err != nil {
		internalError(c, "Failed to subscribe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to the newsletter"})
}

// UnsubscribeNewsletter is the handler for POST /v1/newsletter/unsubscribe
// (public). The row is kept with an unsubscribed timestamp so a later
// resubscribe restores history.
func (h *Handlers) UnsubscribeNewsletter(c *gin.Context) {
	var input NewsletterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	result, err := h.DB.Exec(
		"UPDATE newsletter_subscribers SET unsubscribed_at = ? WHERE email = ? AND unsubscribed_at IS NULL",
		time.Now(), email)
	if err != nil {
		internalError(c, "Failed to unsubscribe")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		notFound(c, "This address is not subscribed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from the newsletter"})
}

// GetSubscribers is the handler for GET /v1/admin/newsletter (admin only)
// Lists active subscribers, newest first.
func (h *Handlers) GetSubscribers(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, email, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		WHERE unsubscribed_at IS NULL
		ORDER BY subscribed_at DESC`)
	if err != nil {
		internalError(c, "Failed to fetch subscribers")
		return
	}
	defer rows.Close()

	subscribers := []models.NewsletterSubscriber{}
	for rows.Next() {
		var s models.NewsletterSubscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.SubscribedAt, &s.Unsubscribed); err != nil {
			internalError(c, "Failed to scan subscriber")
			return
		}
		subscribers = append(subscribers, s)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating subscribers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}
