package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("catalog: product not found")
	ErrInvalidQuantity = errors.New("catalog: quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("catalog: price must be zero or greater")
)

// Product is the persistent catalog entity. Quantity is the stock counter;
// it never goes below zero, decrements are clamped rather than rejected.
type Product struct {
	ID          int64
	Name        string
	Quantity    int
	Price       decimal.Decimal
	Image       string
	Description string
	Category    string
	Visible     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(name string, quantity int, price decimal.Decimal, image, description, category string) (*Product, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Product{
		Name:        name,
		Quantity:    quantity,
		Price:       price,
		Image:       image,
		Description: description,
		Category:    category,
		Visible:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Product) InStock() bool { return p.Quantity > 0 }
