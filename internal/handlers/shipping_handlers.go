package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Shipping Handlers ---
//

const freeShippingThresholdKey = "free_shipping_threshold"

// ListShippingMethods is the handler for GET /v1/shipping/methods (public)
// Only active methods, in display order.
func (h *Handlers) ListShippingMethods(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, price, estimated_days, active, display_order, created_at, updated_at
		FROM shipping_methods
		WHERE active = 1
		ORDER BY display_order ASC, name ASC`)
	if err != nil {
		internalError(c, "Failed to fetch shipping methods")
		return
	}
	defer rows.Close()

	var methods []models.ShippingMethod
	for rows.Next() {
		var m models.ShippingMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.EstimatedDays,
			&m.Active, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
			internalError(c, "Failed to scan shipping method")
			return
		}
		methods = append(methods, m)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating shipping methods")
		return
	}

	if methods == nil {
		methods = []models.ShippingMethod{}
	}
	c.JSON(http.StatusOK, gin.H{"methods": methods})
}

// CalculateShippingInput is the JSON body for POST /v1/shipping/calculate
type CalculateShippingInput struct {
	Subtotal         float64 `json:"subtotal" binding:"required,gt=0"`
	ShippingMethodID *int64  `json:"shippingMethodId"`
}

// CalculateShipping is the handler for POST /v1/shipping/calculate (public).
// The method may be omitted while the shopper hasn't picked one yet; the
// quote then carries the threshold info with cost 0. A method id that does
// not resolve to an active method is an error, never a silent free ride.
func (h *Handlers) CalculateShipping(c *gin.Context) {
	var input CalculateShippingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	threshold, err := getSettingFloat(h.DB, freeShippingThresholdKey)
	if err != nil {
		internalError(c, "Failed to read shipping settings")
		return
	}

	var methodPrice float64
	if input.ShippingMethodID != nil {
		var active bool
		err := h.DB.QueryRow(
			"SELECT price, active FROM shipping_methods WHERE id = ?",
			*input.ShippingMethodID).Scan(&methodPrice, &active)
		if err != nil {
			if err == sql.ErrNoRows {
				badRequest(c, "Selected shipping method does not exist")
				return
			}
			internalError(c, "Failed to look up shipping method")
			return
		}
		if !active {
			badRequest(c, "Selected shipping method is not available")
			return
		}
	}

	quote := models.CalculateShipping(input.Subtotal, threshold, methodPrice)
	c.JSON(http.StatusOK, quote)
}

// ShippingMethodInput is the JSON body for the admin create/update endpoints.
type ShippingMethodInput struct {
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price" binding:"gte=0"`
	EstimatedDays string  `json:"estimatedDays" binding:"required"`
	Active        *bool   `json:"active"`
	DisplayOrder  int     `json:"displayOrder"`
}

// CreateShippingMethod is the handler for POST /v1/admin/shipping/methods
func (h *Handlers) CreateShippingMethod(c *gin.Context) {
	var input ShippingMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO shipping_methods (name, price, estimated_days, active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Price, input.EstimatedDays, active, input.DisplayOrder, now, now)
	if err != nil {
		internalError(c, "Failed to create shipping method")
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Shipping method created", "methodId": id})
}

// UpdateShippingMethod is the handler for PUT /v1/admin/shipping/methods/:id
func (h *Handlers) UpdateShippingMethod(c *gin.Context) {
	var input ShippingMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	result, err := h.DB.Exec(`
		UPDATE shipping_methods
		SET name = ?, price = ?, estimated_days = ?, active = ?, display_order = ?, updated_at = ?
		WHERE id = ?`,
		input.Name, input.Price, input.EstimatedDays, active,
		input.DisplayOrder, time.Now(), c.Param("id"))
	if err != nil {
		internalError(c, "Failed to update shipping method")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Shipping method not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shipping method updated"})
}

// DeleteShippingMethod is the handler for DELETE /v1/admin/shipping/methods/:id
// Orders snapshot the shipping cost at checkout, so losing the method
// reference on historical orders is harmless.
func (h *Handlers) DeleteShippingMethod(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM shipping_methods WHERE id = ?", c.Param("id"))
	if err != nil {
		internalError(c, "Failed to delete shipping method")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Shipping method not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipping method deleted"})
}
