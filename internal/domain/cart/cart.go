package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrEmpty           = errors.New("cart: cart is empty")
	ErrOutOfStock      = errors.New("cart: product is out of stock")
	ErrItemNotFound    = errors.New("cart: item not found")
)

// InsufficientStockError reports how many units can still be added for a
// product, given what the cart already holds.
type InsufficientStockError struct {
	ProductID int64
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cart: requested quantity exceeds stock, only %d left available", e.Remaining)
}

// Item is a snapshot taken at add time. Name, price and image are copied
// from the product so later catalog edits do not rewrite the cart.
type Item struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Image       string
}

// Cart holds a session's intended purchases, at most one item per product.
type Cart struct {
	SessionID string
	Items     []Item
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Find returns a pointer into Items for in-place mutation, or nil.
func (c *Cart) Find(productID int64) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Line is one priced cart row as rendered at checkout.
type Line struct {
	Item
	LineTotal decimal.Decimal
}

// Totals computes per-line totals and the grand total. Malformed entries
// (negative quantity or price) count as zero instead of poisoning the sum.
func (c *Cart) Totals() ([]Line, decimal.Decimal) {
	lines := make([]Line, 0, len(c.Items))
	total := decimal.Zero

	for _, it := range c.Items {
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		if it.Price.IsNegative() {
			it.Price = decimal.Zero
		}
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, Line{Item: it, LineTotal: lineTotal})
	}

	return lines, total
}

// Clone returns a deep copy so callers never share the stored item slice.
func (c *Cart) Clone() *Cart {
	clone := &Cart{SessionID: c.SessionID}
	if len(c.Items) > 0 {
		clone.Items = make([]Item, len(c.Items))
		copy(clone.Items, c.Items)
	}
	return clone
}
