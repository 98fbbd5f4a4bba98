package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Settings Handlers (key-value site configuration) ---
//

// querier is satisfied by both *sql.DB and *sql.Tx so settings can be
// read inside the checkout transaction.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// getSetting returns a setting value, or "" when the key is absent.
func getSetting(q querier, key string) (string, error) {
	var value string
	err := q.QueryRow(
		"SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// getSettingFloat parses a numeric setting. A missing or malformed value
// yields 0, which for the free-shipping threshold means "disabled".
func getSettingFloat(q querier, key string) (float64, error) {
	raw, err := getSetting(q, key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	return value, nil
}

// GetSettings is the handler for GET /v1/admin/settings (admin only)
func (h *Handlers) GetSettings(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT setting_key, setting_value, COALESCE(description, '') FROM settings ORDER BY setting_key")
	if err != nil {
		internalError(c, "Failed to fetch settings")
		return
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.SettingKey, &s.SettingValue, &s.Description); err != nil {
			internalError(c, "Failed to scan setting row")
			return
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating setting rows")
		return
	}

	if settings == nil {
		settings = []models.Setting{}
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettingsInput is a batch of key-value pairs to upsert.
type UpdateSettingsInput struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// UpdateSettings is the handler for PATCH /v1/admin/settings (admin only)
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(input.Settings) == 0 {
		badRequest(c, "No settings provided")
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		internalError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	for key, value := range input.Settings {
		_, err := tx.Exec(`
			INSERT INTO settings (setting_key, setting_value)
			VALUES (?, ?)
			ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`,
			key, value)
		if err != nil {
			internalError(c, "Failed to update setting "+key)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		internalError(c, "Failed to commit settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// GetPublicSettings is the handler for GET /v1/settings/public.
// Only whitelisted keys ever leave the admin area.
func (h *Handlers) GetPublicSettings(c *gin.Context) {
	public := gin.H{}
	for _, key := range models.PublicSettingKeys {
		value, err := getSetting(h.DB, key)
		if err != nil {
			internalError(c, "Failed to fetch settings")
			return
		}
		if value != "" {
			public[key] = value
		}
	}
	c.JSON(http.StatusOK, gin.H{"settings": public})
}
