package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("wishlist: entry not found")

// Entry joins a wishlist row with the current product snapshot so listings
// can show live price and stock.
type Entry struct {
	UserID    int64
	ProductID int64
	Notes     string
	AddedAt   time.Time

	ProductName string
	Price       decimal.Decimal
	Stock       int
	Image       string
	Category    string
	Visible     bool
}

type Repository interface {
	// Add upserts: adding an already-listed product replaces its notes.
	Add(ctx context.Context, userID, productID int64, notes string) error
	Remove(ctx context.Context, userID, productID int64) error
	List(ctx context.Context, userID int64) ([]*Entry, error)
	UpdateNotes(ctx context.Context, userID, productID int64, notes string) error
	Clear(ctx context.Context, userID int64) error
}
