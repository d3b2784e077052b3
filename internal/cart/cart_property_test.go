package cart

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func genProduct() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 50),
		gen.IntRange(1, 100000), // price in minor units
	).Map(func(values []interface{}) domain.Product {
		return domain.Product{
			ID:    values[0].(int),
			Name:  "generated",
			Price: decimal.New(int64(values[1].(int)), -2),
		}
	})
}

// Property: n adds of the same product leave exactly one line with quantity n
func TestProperty_RepeatedAddsAccumulateOnOneLine(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("one line per product id, quantity equals add count", prop.ForAll(
		func(p domain.Product, n int) bool {
			engine := NewEngine()
			for i := 0; i < n; i++ {
				engine.Add(p)
			}

			lines := engine.Lines()
			if len(lines) != 1 {
				t.Logf("FAIL: expected 1 line, got %d", len(lines))
				return false
			}
			if lines[0].Quantity != n {
				t.Logf("FAIL: expected quantity %d, got %d", n, lines[0].Quantity)
				return false
			}
			return true
		},
		genProduct(),
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: item count equals the sum of line quantities and selection
// toggles never change it
func TestProperty_ItemCountInvariantUnderSelection(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("selection patches do not change the item count", prop.ForAll(
		func(products []domain.Product, selected bool) bool {
			engine := NewEngine()
			for _, p := range products {
				engine.Add(p)
			}

			expected := 0
			for _, line := range engine.Lines() {
				expected += line.Quantity
			}
			if engine.ItemCount() != expected {
				t.Logf("FAIL: item count %d, sum of quantities %d", engine.ItemCount(), expected)
				return false
			}

			for _, line := range engine.Lines() {
				engine.Update(line.Product.ID, Patch{Selected: &selected})
			}
			if engine.ItemCount() != expected {
				t.Logf("FAIL: item count changed after selection toggle")
				return false
			}
			return true
		},
		gen.SliceOf(genProduct()),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: subtotal only counts selected lines; deselecting everything
// drives subtotal and total to zero
func TestProperty_SubtotalTracksSelection(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("deselecting all lines zeroes subtotal and total", prop.ForAll(
		func(products []domain.Product) bool {
			engine := NewEngine()
			for _, p := range products {
				engine.Add(p)
			}

			expected := decimal.Zero
			for _, line := range engine.Lines() {
				if line.Selected {
					expected = expected.Add(line.Subtotal())
				}
			}
			if !engine.SelectedSubtotal().Equal(expected) {
				t.Logf("FAIL: subtotal %s, expected %s", engine.SelectedSubtotal(), expected)
				return false
			}

			engine.SetAllSelected(false)
			totals := engine.Totals(DefaultPricing())
			if !totals.Subtotal.IsZero() || !totals.Total.IsZero() {
				t.Logf("FAIL: unselected cart has subtotal %s total %s", totals.Subtotal, totals.Total)
				return false
			}
			return true
		},
		gen.SliceOf(genProduct()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: remove after add restores the cart for that product and leaves
// other lines untouched
func TestProperty_RemoveUndoesAdd(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("remove deletes exactly the added product's line", prop.ForAll(
		func(products []domain.Product, target domain.Product) bool {
			engine := NewEngine()
			for _, p := range products {
				if p.ID != target.ID {
					engine.Add(p)
				}
			}
			before := engine.Lines()

			engine.Add(target)
			engine.Remove(target.ID)
			after := engine.Lines()

			if len(after) != len(before) {
				t.Logf("FAIL: %d lines before, %d after", len(before), len(after))
				return false
			}
			for i := range before {
				if before[i].Product.ID != after[i].Product.ID || before[i].Quantity != after[i].Quantity {
					t.Logf("FAIL: line %d changed", i)
					return false
				}
			}
			return true
		},
		gen.SliceOf(genProduct()),
		genProduct(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: totals always satisfy total = subtotal + shipping + discount,
// shipping is only charged on non-empty subtotals and the discount exactly
// cancels it at or above the threshold
func TestProperty_TotalsArithmetic(t *testing.T) {
	properties := gopter.NewProperties(nil)
	pricing := DefaultPricing()

	properties.Property("shipping and discount follow the campaign rules", prop.ForAll(
		func(minorUnits int) bool {
			subtotal := decimal.New(int64(minorUnits), -2)
			totals := pricing.Compute(subtotal)

			sum := totals.Subtotal.Add(totals.ShippingCost).Add(totals.ShippingDiscount)
			if !totals.Total.Equal(sum) {
				t.Logf("FAIL: total %s != components %s", totals.Total, sum)
				return false
			}

			switch {
			case subtotal.IsZero():
				return totals.ShippingCost.IsZero() && totals.ShippingDiscount.IsZero()
			case subtotal.GreaterThanOrEqual(pricing.FreeShippingThreshold):
				return totals.ShippingDiscount.Equal(pricing.FlatShipping.Neg()) &&
					totals.Total.Equal(subtotal)
			default:
				return totals.ShippingCost.Equal(pricing.FlatShipping) &&
					totals.ShippingDiscount.IsZero()
			}
		},
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
