package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing carries the shipping campaign values used by the totals
// computation.
type Pricing struct {
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPricing matches the backend's current campaign: flat 29.99
// shipping, free at 150 and up.
func DefaultPricing() Pricing {
	return Pricing{
		FlatShipping:          decimal.RequireFromString("29.99"),
		FreeShippingThreshold: decimal.RequireFromString("150"),
	}
}

// NewPricing parses campaign values from configuration strings.
func NewPricing(flatShipping, freeShippingThreshold string) (Pricing, error) {
	flat, err := decimal.NewFromString(flatShipping)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid flat shipping %q: %w", flatShipping, err)
	}
	threshold, err := decimal.NewFromString(freeShippingThreshold)
	if err != nil {
		return Pricing{}, fmt.Errorf("invalid free shipping threshold %q: %w", freeShippingThreshold, err)
	}
	return Pricing{FlatShipping: flat, FreeShippingThreshold: threshold}, nil
}

// Totals is the order summary derived from the selected subtotal. All
// values are exact decimals; rounding to 2 digits happens only at the
// display and payload boundaries.
type Totals struct {
	Subtotal         decimal.Decimal
	ShippingCost     decimal.Decimal
	ShippingDiscount decimal.Decimal
	Total            decimal.Decimal
}

// Compute derives the order summary for a selected subtotal. An empty or
// fully unselected cart yields all zeros; the free-shipping threshold
// comparison is inclusive.
func (p Pricing) Compute(subtotal decimal.Decimal) Totals {
	totals := Totals{
		Subtotal:         subtotal,
		ShippingCost:     decimal.Zero,
		ShippingDiscount: decimal.Zero,
	}

	if subtotal.IsPositive() {
		totals.ShippingCost = p.FlatShipping
	}
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		totals.ShippingDiscount = totals.ShippingCost.Neg()
	}

	totals.Total = totals.Subtotal.Add(totals.ShippingCost).Add(totals.ShippingDiscount)
	return totals
}

// Totals computes the order summary for the cart's current selection.
func (e *Engine) Totals(pricing Pricing) Totals {
	return pricing.Compute(e.SelectedSubtotal())
}
