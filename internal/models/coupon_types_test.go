package models

import (
	"testing"
	"time"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestNormalizeCouponCode(t *testing.T) {
	if got := NormalizeCouponCode("  summer10 "); got != "SUMMER10" {
		t.Errorf("expected SUMMER10, got %q", got)
	}
}

func TestCoupon_CheckEligibility(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active coupon with no constraints passes", func(t *testing.T) {
		cp := Coupon{Code: "WELCOME", Type: CouponTypePercentage, Value: 10, Active: true}
		if err := cp.CheckEligibility(100, now); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("inactive coupon is rejected", func(t *testing.T) {
		cp := Coupon{Code: "OLD", Type: CouponTypeFixed, Value: 5, Active: false}
		err := cp.CheckEligibility(100, now)
		if err == nil || err.Message != CouponReasonInactive {
			t.Errorf("expected inactive rejection, got %v", err)
		}
	})

	t.Run("expired coupon is rejected", func(t *testing.T) {
		cp := Coupon{
			Code: "PAST", Type: CouponTypeFixed, Value: 5, Active: true,
			ExpiresAt: timePtr(now.Add(-time.Hour)),
		}
		err := cp.CheckEligibility(100, now)
		if err == nil || err.Message != CouponReasonExpired {
			t.Errorf("expected expired rejection, got %v", err)
		}
	})

	t.Run("future expiry still valid", func(t *testing.T) {
		cp := Coupon{
			Code: "SOON", Type: CouponTypeFixed, Value: 5, Active: true,
			ExpiresAt: timePtr(now.Add(time.Hour)),
		}
		if err := cp.CheckEligibility(100, now); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("usage limit reached is rejected", func(t *testing.T) {
		cp := Coupon{
			Code: "LIMITED", Type: CouponTypeFixed, Value: 5, Active: true,
			UsageLimit: intPtr(3), UsageCount: 3,
		}
		err := cp.CheckEligibility(100, now)
		if err == nil || err.Message != CouponReasonUsageLimit {
			t.Errorf("expected usage-limit rejection, got %v", err)
		}
	})

	t.Run("one use left still passes", func(t *testing.T) {
		cp := Coupon{
			Code: "LIMITED", Type: CouponTypeFixed, Value: 5, Active: true,
			UsageLimit: intPtr(3), UsageCount: 2,
		}
		if err := cp.CheckEligibility(100, now); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("below minimum order is rejected", func(t *testing.T) {
		cp := Coupon{
			Code: "BIGSPEND", Type: CouponTypePercentage, Value: 10, Active: true,
			MinOrderAmount: floatPtr(50),
		}
		err := cp.CheckEligibility(49.99, now)
		if err == nil || err.Message != CouponReasonBelowMinimum {
			t.Errorf("expected below-minimum rejection, got %v", err)
		}
		if err := cp.CheckEligibility(50, now); err != nil {
			t.Errorf("exact minimum should pass, got %v", err)
		}
	})

	t.Run("inactive reported before expiry", func(t *testing.T) {
		cp := Coupon{
			Code: "DOUBLE", Type: CouponTypeFixed, Value: 5, Active: false,
			ExpiresAt: timePtr(now.Add(-time.Hour)),
		}
		err := cp.CheckEligibility(100, now)
		if err == nil || err.Message != CouponReasonInactive {
			t.Errorf("expected inactive to win, got %v", err)
		}
	})
}

func TestCoupon_DiscountFor(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		cp := Coupon{Type: CouponTypePercentage, Value: 10}
		if got := cp.DiscountFor(200); got != 20 {
			t.Errorf("expected 20, got %v", got)
		}
	})

	t.Run("percentage clamped to max discount", func(t *testing.T) {
		cp := Coupon{Type: CouponTypePercentage, Value: 10, MaxDiscountAmount: floatPtr(20)}
		if got := cp.DiscountFor(300); got != 20 {
			t.Errorf("expected clamp to 20, got %v", got)
		}
	})

	t.Run("fixed discount", func(t *testing.T) {
		cp := Coupon{Type: CouponTypeFixed, Value: 15}
		if got := cp.DiscountFor(100); got != 15 {
			t.Errorf("expected 15, got %v", got)
		}
	})

	t.Run("fixed discount clamped to order amount", func(t *testing.T) {
		cp := Coupon{Type: CouponTypeFixed, Value: 15}
		if got := cp.DiscountFor(10); got != 10 {
			t.Errorf("expected clamp to 10, got %v", got)
		}
	})

	t.Run("unknown type yields zero", func(t *testing.T) {
		cp := Coupon{Type: "bogus", Value: 15}
		if got := cp.DiscountFor(100); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})
}

func TestCoupon_RedemptionLimit(t *testing.T) {
	// Checkout holds a row lock on the coupon while it re-checks
	// eligibility against the current counter and increments on success,
	// so concurrent redemptions reduce to this sequential loop. A coupon
	// with usage_limit N must redeem exactly N times, no matter how many
	// checkouts attempt it.
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cp := Coupon{Code: "LIMITED", Type: CouponTypeFixed, Value: 5, Active: true, UsageLimit: intPtr(3)}

	redeemed := 0
	for attempt := 0; attempt < 10; attempt++ {
		if cp.CheckEligibility(100, now) != nil {
			continue
		}
		cp.UsageCount++
		redeemed++
	}

	if redeemed != 3 {
		t.Errorf("expected exactly 3 redemptions, got %d", redeemed)
	}
	if cp.UsageCount != 3 {
		t.Errorf("expected usage count 3, got %d", cp.UsageCount)
	}
	if err := cp.CheckEligibility(100, now); err == nil || err.Message != CouponReasonUsageLimit {
		t.Errorf("expected usage limit rejection after exhaustion, got %v", err)
	}
}
