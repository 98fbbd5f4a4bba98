package models

import "testing"

func TestCalculateShipping(t *testing.T) {
	t.Run("subtotal above threshold is free", func(t *testing.T) {
		q := CalculateShipping(150, 100, 9.90)
		if !q.IsFreeShipping || q.Cost != 0 || q.AmountToFreeShipping != 0 {
			t.Errorf("expected free shipping, got %+v", q)
		}
	})

	t.Run("subtotal equal to threshold is free", func(t *testing.T) {
		q := CalculateShipping(100, 100, 9.90)
		if !q.IsFreeShipping || q.Cost != 0 {
			t.Errorf("expected free shipping at exact threshold, got %+v", q)
		}
	})

	t.Run("below threshold pays method price", func(t *testing.T) {
		q := CalculateShipping(60, 100, 9.90)
		if q.IsFreeShipping {
			t.Error("expected paid shipping")
		}
		if q.Cost != 9.90 {
			t.Errorf("expected cost 9.90, got %v", q.Cost)
		}
		if q.AmountToFreeShipping != 40 {
			t.Errorf("expected 40 to free shipping, got %v", q.AmountToFreeShipping)
		}
	})

	t.Run("amount to free shipping never negative", func(t *testing.T) {
		q := CalculateShipping(60, 100, 9.90)
		if q.AmountToFreeShipping < 0 {
			t.Errorf("negative remainder: %v", q.AmountToFreeShipping)
		}
	})

	t.Run("zero threshold disables free shipping", func(t *testing.T) {
		q := CalculateShipping(1000, 0, 9.90)
		if q.IsFreeShipping {
			t.Error("free shipping should be disabled")
		}
		if q.Cost != 9.90 {
			t.Errorf("expected cost 9.90, got %v", q.Cost)
		}
		if q.AmountToFreeShipping != 0 {
			t.Errorf("remainder should be 0 when disabled, got %v", q.AmountToFreeShipping)
		}
	})

	t.Run("negative threshold disables free shipping", func(t *testing.T) {
		q := CalculateShipping(10, -5, 4.50)
		if q.IsFreeShipping || q.Cost != 4.50 {
			t.Errorf("expected paid shipping, got %+v", q)
		}
	})
}
