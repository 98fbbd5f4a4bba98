package middleware

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

// AdminMiddleware must run after AuthMiddleware. It reads the caller's
// role from the users table and rejects anyone who is not an admin.
func AdminMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDRaw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "code": "UNAUTHENTICATED"})
			c.Abort()
			return
		}
		userID := userIDRaw.(int64)

		var role string
		err := db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user", "code": "UNAUTHENTICATED"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role", "code": "INTERNAL"})
			}
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required", "code": "FORBIDDEN"})
			c.Abort()
			return
		}

		c.Set("userRole", role)
		c.Next()
	}
}
