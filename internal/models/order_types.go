package models

import "time"

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// orderTransitions is the allowed status graph. Delivered and cancelled
// are terminal. A cancelled order can never be shipped, and a shipped
// order can no longer be cancelled.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionOrder reports whether an order may move from one status
// to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderAmounts is the money snapshot fixed at checkout.
type OrderAmounts struct {
	Subtotal     float64
	Discount     float64
	ShippingCost float64
	Total        float64
}

// ComputeOrderAmounts derives an order's money fields from the cart
// subtotal, the coupon (nil when none was applied) and the shipping
// quote. Total = subtotal - discount + shipping, and the result is
// written once at checkout and never recomputed.
func ComputeOrderAmounts(subtotal float64, coupon *Coupon, quote ShippingQuote) OrderAmounts {
	amounts := OrderAmounts{Subtotal: subtotal, ShippingCost: quote.Cost}
	if coupon != nil {
		amounts.Discount = coupon.DiscountFor(subtotal)
	}
	amounts.Total = subtotal - amounts.Discount + quote.Cost
	return amounts
}

// Order is the model for the 'orders' table. Subtotal, discount, shipping
// cost and total are a snapshot taken at checkout: they never change after
// creation, even if products or coupons are edited later.
type Order struct {
	ID               int64   `json:"id" db:"id"`
	OrderNumber      string  `json:"orderNumber" db:"order_number"`
	UserID           *int64  `json:"userId,omitempty" db:"user_id"`         // nil for guest orders
	GuestEmail       *string `json:"guestEmail,omitempty" db:"guest_email"` // set for guest orders
	Status           string  `json:"status" db:"status"`
	Subtotal         float64 `json:"subtotal" db:"subtotal"`
	DiscountAmount   float64 `json:"discountAmount" db:"discount_amount"`
	CouponCode       *string `json:"couponCode,omitempty" db:"coupon_code"`
	ShippingCost     float64 `json:"shippingCost" db:"shipping_cost"`
	ShippingMethodID *int64  `json:"shippingMethodId,omitempty" db:"shipping_method_id"`
	Total            float64 `json:"total" db:"total"`

	// Shipping address snapshot
	ShippingName     string  `json:"shippingName" db:"shipping_name"`
	ShippingAddress1 string  `json:"shippingAddress1" db:"shipping_address1"`
	ShippingAddress2 *string `json:"shippingAddress2,omitempty" db:"shipping_address2"`
	ShippingCity     string  `json:"shippingCity" db:"shipping_city"`
	ShippingPostcode string  `json:"shippingPostcode" db:"shipping_postcode"`
	ShippingCountry  string  `json:"shippingCountry" db:"shipping_country"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table. Name, image and unit
// price are copied from the product at checkout so later product edits do
// not rewrite order history.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"orderId" db:"order_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
