package domain

import "math"

const (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 35.00

	// FlatShippingRate applies to orders at or below the threshold.
	FlatShippingRate = 5.99

	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = 0.08
)

// OrderTotals is the single source of truth for order math. Every place
// that shows or submits a total must go through ComputeTotals.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals applies the storefront pricing rules to a subtotal:
// free shipping above the threshold, flat rate otherwise, tax rounded
// to cents.
func ComputeTotals(subtotal float64) OrderTotals {
	subtotal = RoundCents(subtotal)

	shipping := FlatShippingRate
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	tax := RoundCents(subtotal * TaxRate)

	return OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    RoundCents(subtotal + shipping + tax),
	}
}

// RoundCents rounds a monetary amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
