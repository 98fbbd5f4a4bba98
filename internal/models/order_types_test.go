package models

import "testing"

func TestCanTransitionOrder(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		if !CanTransitionOrder(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct{ from, to string }{
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusProcessing},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusPending},
	}
	for _, tc := range rejected {
		if CanTransitionOrder(tc.from, tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestComputeOrderAmounts(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		coupon   *Coupon
		quote    ShippingQuote
		want     OrderAmounts
	}{
		{
			name:     "no coupon, paid shipping",
			subtotal: 120,
			quote:    ShippingQuote{Cost: 8.5},
			want:     OrderAmounts{Subtotal: 120, Discount: 0, ShippingCost: 8.5, Total: 128.5},
		},
		{
			name:     "fixed coupon reduces the total",
			subtotal: 100,
			coupon:   &Coupon{Type: CouponTypeFixed, Value: 15, Active: true},
			quote:    ShippingQuote{Cost: 5},
			want:     OrderAmounts{Subtotal: 100, Discount: 15, ShippingCost: 5, Total: 90},
		},
		{
			name:     "percentage coupon with cap",
			subtotal: 300,
			coupon:   &Coupon{Type: CouponTypePercentage, Value: 10, Active: true, MaxDiscountAmount: floatPtr(20)},
			quote:    ShippingQuote{Cost: 5},
			want:     OrderAmounts{Subtotal: 300, Discount: 20, ShippingCost: 5, Total: 285},
		},
		{
			name:     "free shipping quote adds nothing",
			subtotal: 250,
			quote:    ShippingQuote{Cost: 0, IsFreeShipping: true},
			want:     OrderAmounts{Subtotal: 250, Discount: 0, ShippingCost: 0, Total: 250},
		},
		{
			name:     "discount never pushes the total below shipping",
			subtotal: 10,
			coupon:   &Coupon{Type: CouponTypeFixed, Value: 50, Active: true},
			quote:    ShippingQuote{Cost: 5},
			want:     OrderAmounts{Subtotal: 10, Discount: 10, ShippingCost: 5, Total: 5},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeOrderAmounts(tc.subtotal, tc.coupon, tc.quote)
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
			if got.Total != got.Subtotal-got.Discount+got.ShippingCost {
				t.Errorf("total %v does not equal subtotal - discount + shipping", got.Total)
			}
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if !ValidOrderStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "on-hold", "PENDING", "refunded"} {
		if ValidOrderStatus(s) {
			t.Errorf("%s should be invalid", s)
		}
	}
}
