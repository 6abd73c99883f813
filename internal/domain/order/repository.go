package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Meta carries the optional display bolt-ons recorded with an order header.
type Meta struct {
	DisplayCurrency string
	BNPLMonths      int
}

type Repository interface {
	// InsertOrder persists the header and returns the store-assigned id.
	InsertOrder(ctx context.Context, userID int64, total decimal.Decimal, meta Meta) (int64, error)
	// InsertItems persists all lines for orderID, batched where the store
	// supports it.
	InsertItems(ctx context.Context, orderID int64, items []Item) error
	Get(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	// ListAll returns every order, newest first (admin view).
	ListAll(ctx context.Context) ([]*Order, error)
}
