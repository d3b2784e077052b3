package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func product(id int, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "test product",
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestAdd_NewLineIsSelectedWithQuantityOne(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "49.90"))

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[0].Selected)
}

func TestAdd_SameProductIncrementsExistingLine(t *testing.T) {
	engine := NewEngine()
	p := product(1, "49.90")

	engine.Add(p)
	engine.Add(p)
	engine.Add(p)

	require.Equal(t, 1, engine.Len())
	assert.Equal(t, 3, engine.ItemCount())
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(3, "10"))
	engine.Add(product(1, "20"))
	engine.Add(product(2, "30"))
	engine.Add(product(1, "20")) // increment, must not reorder

	lines := engine.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{lines[0].Product.ID, lines[1].Product.ID, lines[2].Product.ID})
}

func TestRemove_OnlyTargetLineIsDeleted(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))
	engine.Add(product(2, "20"))

	engine.Remove(1)

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Product.ID)

	// Removing an absent line is a no-op, not an error
	engine.Remove(99)
	assert.Equal(t, 1, engine.Len())
}

func TestUpdate_PartialPatchSemantics(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))

	engine.Update(1, Patch{Quantity: intPtr(5)})
	lines := engine.Lines()
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].Selected, "quantity patch must not touch selection")

	engine.Update(1, Patch{Selected: boolPtr(false)})
	lines = engine.Lines()
	assert.Equal(t, 5, lines[0].Quantity, "selection patch must not touch quantity")
	assert.False(t, lines[0].Selected)
}

func TestUpdate_QuantityZeroRemovesLine(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))
	engine.Add(product(2, "20"))

	engine.Update(1, Patch{Quantity: intPtr(0)})

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Product.ID)
}

func TestUpdate_NegativeQuantityClampsToOne(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))

	engine.Update(1, Patch{Quantity: intPtr(-3)})

	assert.Equal(t, 1, engine.Lines()[0].Quantity)
}

func TestUpdate_UnknownProductIsNoOp(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))

	engine.Update(42, Patch{Quantity: intPtr(7)})

	assert.Equal(t, 1, engine.ItemCount())
}

func TestClear_EmptiesUnconditionally(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))
	engine.Add(product(2, "20"))
	engine.Update(2, Patch{Selected: boolPtr(false)})

	engine.Clear()

	assert.Equal(t, 0, engine.Len())
	assert.Equal(t, 0, engine.ItemCount())
	assert.True(t, engine.SelectedSubtotal().IsZero())
}

func TestSelectedSubtotal_IgnoresUnselectedLines(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "80.00"))
	engine.Add(product(2, "90.00"))
	engine.Update(2, Patch{Selected: boolPtr(false)})

	assert.True(t, engine.SelectedSubtotal().Equal(decimal.RequireFromString("80.00")))

	engine.SetAllSelected(false)
	assert.True(t, engine.SelectedSubtotal().IsZero())
}

func TestSetAllSelected_BulkToggle(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "10"))
	engine.Add(product(2, "20"))
	engine.Update(1, Patch{Selected: boolPtr(false)})

	assert.False(t, engine.EverySelected())
	assert.True(t, engine.AnySelected())

	engine.SetAllSelected(true)
	assert.True(t, engine.EverySelected())

	engine.SetAllSelected(false)
	assert.False(t, engine.AnySelected())
}

func TestTotals_BelowThresholdChargesFlatShipping(t *testing.T) {
	engine := NewEngine()
	engine.Add(product(1, "80.00"))
	engine.Add(product(2, "90.00"))
	engine.Update(2, Patch{Selected: boolPtr(false)})

	totals := engine.Totals(DefaultPricing())

	assert.Equal(t, "80.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "29.99", totals.ShippingCost.StringFixed(2))
	assert.Equal(t, "0.00", totals.ShippingDiscount.StringFixed(2))
	assert.Equal(t, "109.99", totals.Total.StringFixed(2))
}

func TestTotals_ThresholdIsInclusive(t *testing.T) {
	pricing := DefaultPricing()

	atThreshold := pricing.Compute(decimal.RequireFromString("150.00"))
	assert.Equal(t, "-29.99", atThreshold.ShippingDiscount.StringFixed(2))
	assert.Equal(t, "150.00", atThreshold.Total.StringFixed(2))

	justBelow := pricing.Compute(decimal.RequireFromString("149.99"))
	assert.Equal(t, "0.00", justBelow.ShippingDiscount.StringFixed(2))
	assert.Equal(t, "179.98", justBelow.Total.StringFixed(2))
}

func TestTotals_EmptySelectionIsAllZero(t *testing.T) {
	totals := DefaultPricing().Compute(decimal.Zero)

	assert.True(t, totals.ShippingCost.IsZero())
	assert.True(t, totals.ShippingDiscount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestTotals_NoPennyDriftAcrossRepeatedAdds(t *testing.T) {
	engine := NewEngine()
	p := product(1, "0.10")
	for i := 0; i < 1000; i++ {
		engine.Add(p)
	}

	assert.Equal(t, "100.00", engine.SelectedSubtotal().StringFixed(2))
}
