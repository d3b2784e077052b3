package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Line binds one product to a quantity and a selection flag. At most one
// line exists per product id; quantity is always >= 1.
type Line struct {
	Product  domain.Product
	Quantity int
	Selected bool
}

// Subtotal is the line's price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Patch is a partial update of a line. Only non-nil fields change.
type Patch struct {
	Quantity *int
	Selected *bool
}

// Engine is the sole owner of in-memory cart state. All other components
// read it and issue intents; derived values are pure reads over the lines.
type Engine struct {
	mu    sync.Mutex
	lines []Line
}

func NewEngine() *Engine {
	return &Engine{}
}

// Add puts one more unit of the product in the cart: an existing line has
// its quantity incremented, otherwise a new selected line is appended.
func (e *Engine) Add(product domain.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == product.ID {
			e.lines[i].Quantity++
			return
		}
	}

	e.lines = append(e.lines, Line{
		Product:  product,
		Quantity: 1,
		Selected: true,
	})
}

// Remove deletes the line for the product id. Absent lines are a no-op.
func (e *Engine) Remove(productID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			return
		}
	}
}

// Update applies a partial patch to the line for the product id. A quantity
// of zero means the line is no longer wanted and removes it; negative
// quantities clamp to 1 so an invalid zero-quantity line can never exist.
func (e *Engine) Update(productID int, patch Patch) {
	if patch.Quantity != nil && *patch.Quantity == 0 {
		e.Remove(productID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID != productID {
			continue
		}
		if patch.Quantity != nil {
			quantity := *patch.Quantity
			if quantity < 1 {
				quantity = 1
			}
			e.lines[i].Quantity = quantity
		}
		if patch.Selected != nil {
			e.lines[i].Selected = *patch.Selected
		}
		return
	}
}

// Clear empties the cart unconditionally.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
}

// Lines returns a copy of the cart in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make([]Line, len(e.lines))
	copy(lines, e.lines)
	return lines
}

// Len returns the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// ItemCount is the sum of quantities across all lines, selected or not.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// SelectedLines returns copies of the lines currently marked for purchase.
func (e *Engine) SelectedLines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	var selected []Line
	for _, line := range e.lines {
		if line.Selected {
			selected = append(selected, line)
		}
	}
	return selected
}

// SelectedSubtotal sums price × quantity over selected lines only.
func (e *Engine) SelectedSubtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	subtotal := decimal.Zero
	for _, line := range e.lines {
		if line.Selected {
			subtotal = subtotal.Add(line.Subtotal())
		}
	}
	return subtotal
}

// EverySelected reports whether all lines are marked for purchase. An
// empty cart counts as fully selected, matching select-all checkbox
// semantics.
func (e *Engine) EverySelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, line := range e.lines {
		if !line.Selected {
			return false
		}
	}
	return true
}

// AnySelected reports whether at least one line is marked for purchase.
func (e *Engine) AnySelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, line := range e.lines {
		if line.Selected {
			return true
		}
	}
	return false
}

// SetAllSelected sets every line's selection flag, the bulk toggle behind
// a select-all checkbox.
func (e *Engine) SetAllSelected(selected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		e.lines[i].Selected = selected
	}
}
