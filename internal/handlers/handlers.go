package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/ai"
	"github.com/harborline/storefront-api/internal/ratelimit"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB           *sql.DB
	TrackLimiter *ratelimit.Limiter // guards guest order tracking
	AIService    *ai.AIService      // shopping assistant, nil when disabled
}

// currentUserID returns the authenticated caller's ID, or false for guests.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	return raw.(int64), true
}

// sessionID returns the guest session identifier, if the client sent one.
func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-Id")
}
