package models

import (
	"strings"
	"time"
)

// Coupon discount types
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon is the model for the 'coupons' table.
// Codes are stored upper-cased so lookups are case-insensitive.
type Coupon struct {
	ID                int64      `json:"id" db:"id"`
	Code              string     `json:"code" db:"code"`
	Type              string     `json:"type" db:"type"` // percentage | fixed
	Value             float64    `json:"value" db:"value"`
	Active            bool       `json:"active" db:"active"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	UsageLimit        *int       `json:"usageLimit,omitempty" db:"usage_limit"`
	UsageCount        int        `json:"usageCount" db:"usage_count"`
	MinOrderAmount    *float64   `json:"minOrderAmount,omitempty" db:"min_order_amount"`
	MaxDiscountAmount *float64   `json:"maxDiscountAmount,omitempty" db:"max_discount_amount"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}

// NormalizeCouponCode converts user input ("summer10 ") into the stored
// form ("SUMMER10") before any lookup.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Reasons returned by CheckEligibility. The storefront shows these verbatim.
const (
	CouponReasonInactive     = "This coupon is no longer active"
	CouponReasonExpired      = "This coupon has expired"
	CouponReasonUsageLimit   = "This coupon has reached its usage limit"
	CouponReasonBelowMinimum = "Order amount is below the minimum for this coupon"
)

// CouponError is a business-rule rejection of a coupon. It maps to a
// BAD_REQUEST at the API boundary.
type CouponError struct {
	Message string
}

func (e *CouponError) Error() string { return e.Message }

// CheckEligibility validates the coupon against an order amount at a given
// moment. Checks run in a fixed order so the caller always gets the most
// fundamental failure first: inactive, expired, usage limit, minimum order.
func (cp *Coupon) CheckEligibility(orderAmount float64, now time.Time) *CouponError {
	if !cp.Active {
		return &CouponError{Message: CouponReasonInactive}
	}
	if cp.ExpiresAt != nil && cp.ExpiresAt.Before(now) {
		return &CouponError{Message: CouponReasonExpired}
	}
	if cp.UsageLimit != nil && cp.UsageCount >= *cp.UsageLimit {
		return &CouponError{Message: CouponReasonUsageLimit}
	}
	if cp.MinOrderAmount != nil && orderAmount < *cp.MinOrderAmount {
		return &CouponError{Message: CouponReasonBelowMinimum}
	}
	return nil
}

// DiscountFor computes the discount a coupon grants on an order amount.
// Percentage discounts are clamped to MaxDiscountAmount when set. All
// discounts are clamped to the order amount itself so a total can never
// go negative.
func (cp *Coupon) DiscountFor(orderAmount float64) float64 {
	var discount float64
	switch cp.Type {
	case CouponTypePercentage:
		discount = orderAmount * cp.Value / 100
		if cp.MaxDiscountAmount != nil && discount > *cp.MaxDiscountAmount {
			discount = *cp.MaxDiscountAmount
		}
	case CouponTypeFixed:
		discount = cp.Value
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
