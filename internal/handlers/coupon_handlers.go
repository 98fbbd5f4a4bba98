package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborline/storefront-api/internal/models"
)

//
// --- Coupon Handlers ---
//

const couponColumns = `id, code, type, value, active, expires_at, usage_limit,
	usage_count, min_order_amount, max_discount_amount, created_at, updated_at`

// scanCoupon reads one coupon row. row may come from either *sql.DB or a
// transaction.
func scanCoupon(row *sql.Row) (models.Coupon, error) {
	var cp models.Coupon
	err := row.Scan(&cp.ID, &cp.Code, &cp.Type, &cp.Value, &cp.Active,
		&cp.ExpiresAt, &cp.UsageLimit, &cp.UsageCount,
		&cp.MinOrderAmount, &cp.MaxDiscountAmount, &cp.CreatedAt, &cp.UpdatedAt)
	return cp, err
}

// ValidateCouponInput is the JSON body for POST /v1/coupons/validate
type ValidateCouponInput struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"orderAmount" binding:"required,gt=0"`
}

// ValidateCoupon is the handler for POST /v1/coupons/validate (public).
// A dry-run check for the cart page: it computes the discount but does
// NOT reserve a use. The authoritative validation happens again inside
// the checkout transaction, where the usage counter is locked and
// incremented atomically.
func (h *Handlers) ValidateCoupon(c *gin.Context) {
	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	code := models.NormalizeCouponCode(input.Code)
	cp, err := scanCoupon(h.DB.QueryRow(
		"SELECT "+couponColumns+" FROM coupons WHERE code = ?", code))
	if err != nil {
		if err == sql.ErrNoRows {
			notFound(c, "Coupon code not found")
			return
		}
		internalError(c, "Failed to look up coupon")
		return
	}

	if eligErr := cp.CheckEligibility(input.OrderAmount, time.Now()); eligErr != nil {
		badRequest(c, eligErr.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"coupon":         cp,
		"discountAmount": cp.DiscountFor(input.OrderAmount),
	})
}

// CouponInput is the JSON body for the admin create/update endpoints.
type CouponInput struct {
	Code              string     `json:"code" binding:"required"`
	Type              string     `json:"type" binding:"required,oneof=percentage fixed"`
	Value             float64    `json:"value" binding:"required,gt=0"`
	Active            *bool      `json:"active"`
	ExpiresAt         *time.Time `json:"expiresAt"`
	UsageLimit        *int       `json:"usageLimit"`
	MinOrderAmount    *float64   `json:"minOrderAmount"`
	MaxDiscountAmount *float64   `json:"maxDiscountAmount"`
}

// CreateCoupon is the handler for POST /v1/admin/coupons (admin only)
func (h *Handlers) CreateCoupon(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Type == models.CouponTypePercentage && input.Value > 100 {
		badRequest(c, "Percentage value cannot exceed 100")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO coupons
		(code, type, value, active, expires_at, usage_limit, usage_count,
		 min_order_amount, max_discount_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		models.NormalizeCouponCode(input.Code), input.Type, input.Value,
		active, input.ExpiresAt, input.UsageLimit,
		input.MinOrderAmount, input.MaxDiscountAmount, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "A coupon with this code already exists")
			return
		}
		internalError(c, "Failed to create coupon")
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"message": "Coupon created", "couponId": id})
}

// GetAllCoupons is the handler for GET /v1/admin/coupons (admin only)
func (h *Handlers) GetAllCoupons(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT " + couponColumns + " FROM coupons ORDER BY created_at DESC")
	if err != nil {
		internalError(c, "Failed to fetch coupons")
		return
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		var cp models.Coupon
		if err := rows.Scan(&cp.ID, &cp.Code, &cp.Type, &cp.Value, &cp.Active,
			&cp.ExpiresAt, &cp.UsageLimit, &cp.UsageCount,
			&cp.MinOrderAmount, &cp.MaxDiscountAmount,
			&cp.CreatedAt, &cp.UpdatedAt); err != nil {
			internalError(c, "Failed to scan coupon row")
			return
		}
		coupons = append(coupons, cp)
	}
	if err = rows.Err(); err != nil {
		internalError(c, "Error iterating coupon rows")
		return
	}

	if coupons == nil {
		coupons = []models.Coupon{}
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// UpdateCoupon is the handler for PUT /v1/admin/coupons/:id (admin only).
// The usage counter is deliberately not editable.
func (h *Handlers) UpdateCoupon(c *gin.Context) {
	couponID := c.Param("id")

	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	if input.Type == models.CouponTypePercentage && input.Value > 100 {
		badRequest(c, "Percentage value cannot exceed 100")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	result, err := h.DB.Exec(`
		UPDATE coupons
		SET code = ?, type = ?, value = ?, active = ?, expires_at = ?,
		    usage_limit = ?, min_order_amount = ?, max_discount_amount = ?,
		    updated_at = ?
		WHERE id = ?`,
		models.NormalizeCouponCode(input.Code), input.Type, input.Value,
		active, input.ExpiresAt, input.UsageLimit,
		input.MinOrderAmount, input.MaxDiscountAmount, time.Now(), couponID)
	if err != nil {
		if isDuplicateKey(err) {
			conflict(c, "A coupon with this code already exists")
			return
		}
		internalError(c, "Failed to update coupon")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Coupon not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon updated"})
}

// DeleteCoupon is the handler for DELETE /v1/admin/coupons/:id (admin only)
// Orders store the coupon code as text, so deleting a coupon never breaks
// order history.
func (h *Handlers) DeleteCoupon(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM coupons WHERE id = ?", c.Param("id"))
	if err != nil {
		internalError(c, "Failed to delete coupon")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		notFound(c, "Coupon not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}
