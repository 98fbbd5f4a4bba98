package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(c *gin.Context) { badRequest(c, "nope") }, http.StatusBadRequest, CodeBadRequest},
		{"not found", func(c *gin.Context) { notFound(c, "nope") }, http.StatusNotFound, CodeNotFound},
		{"conflict", func(c *gin.Context) { conflict(c, "nope") }, http.StatusConflict, CodeConflict},
		{"unauthenticated", func(c *gin.Context) { unauthenticated(c, "nope") }, http.StatusUnauthorized, CodeUnauthenticated},
		{"forbidden", func(c *gin.Context) { forbidden(c, "nope") }, http.StatusForbidden, CodeForbidden},
		{"internal", func(c *gin.Context) { internalError(c, "nope") }, http.StatusInternalServerError, CodeInternal},
		{"too many requests", func(c *gin.Context) { tooManyRequests(c, "nope") }, http.StatusTooManyRequests, CodeBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			tc.respond(c)

			if rec.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}

			var body struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, body.Code)
			}
			if body.Error != "nope" {
				t.Errorf("expected error message to pass through, got %q", body.Error)
			}
		})
	}
}
