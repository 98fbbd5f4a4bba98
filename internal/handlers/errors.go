package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes surfaced to the storefront UI. The frontend switches on
// these, so the set is closed. Never add a code without updating the UI.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, CodeNotFound, message)
}

func conflict(c *gin.Context, message string) {
	respondError(c, http.StatusConflict, CodeConflict, message)
}

func unauthenticated(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, CodeUnauthenticated, message)
}

func forbidden(c *gin.Context, message string) {
	respondError(c, http.StatusForbidden, CodeForbidden, message)
}

func internalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, CodeInternal, message)
}

// tooManyRequests answers throttled endpoints with 429. The closed code
// set above has no throttle code, so the body carries BAD_REQUEST and
// clients that need to distinguish throttling switch on the status.
func tooManyRequests(c *gin.Context, message string) {
	respondError(c, http.StatusTooManyRequests, CodeBadRequest, message)
}
