package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("order: not found")
	ErrNoItems       = errors.New("order: order must have at least one item")
	ErrInvalidAmount = errors.New("order: total must be zero or greater")
)

// Order is the immutable record of a completed purchase. There is no update
// path: once inserted, header and items never change.
type Order struct {
	ID        int64
	UserID    int64
	Total     decimal.Decimal
	CreatedAt time.Time

	// Display-only bolt-ons snapshotted at checkout.
	DisplayCurrency string
	BNPLMonths      int

	Items []Item
}

// Item is a line snapshot owned by its order. ProductID is a reference, not
// ownership: the product may be edited or deleted later without touching
// historical invoices.
type Item struct {
	OrderID     int64
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums price*quantity over the given lines.
func ItemsTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
