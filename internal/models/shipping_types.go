package models

import "time"

// ShippingMethod is the model for the 'shipping_methods' table.
// Orders snapshot the shipping cost at checkout, so editing or removing
// a method never rewrites order history.
type ShippingMethod struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	EstimatedDays string    `json:"estimatedDays" db:"estimated_days"` // e.g. "3-5"
	Active        bool      `json:"active" db:"active"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ShippingQuote is the result of a shipping calculation.
type ShippingQuote struct {
	Cost                 float64 `json:"cost"`
	IsFreeShipping       bool    `json:"isFreeShipping"`
	AmountToFreeShipping float64 `json:"amountToFreeShipping"`
	Threshold            float64 `json:"threshold"`
}

// CalculateShipping applies the free-shipping threshold to a subtotal.
// A threshold <= 0 disables free shipping entirely. methodPrice is the
// flat price of the selected shipping method; the caller is responsible
// for resolving the method and rejecting missing or inactive ones.
func CalculateShipping(subtotal, threshold, methodPrice float64) ShippingQuote {
	quote := ShippingQuote{Threshold: threshold}

	if threshold > 0 && subtotal >= threshold {
		quote.IsFreeShipping = true
		return quote
	}

	quote.Cost = methodPrice
	if threshold > 0 {
		quote.AmountToFreeShipping = threshold - subtotal
		if quote.AmountToFreeShipping < 0 {
			quote.AmountToFreeShipping = 0
		}
	}
	return quote
}
