package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// SearchFilter narrows product listings. Zero values mean "no constraint".
type SearchFilter struct {
	Term     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     Sort
	// IncludeHidden lists products regardless of visibility (admin views).
	IncludeHidden bool
}

type Sort string

const (
	SortDefault   Sort = ""
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	ListVisible(ctx context.Context) ([]*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Product, error)
	Insert(ctx context.Context, p *Product) (int64, error)
	// Update keeps the stored image when p.Image is empty.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	SetVisibility(ctx context.Context, id int64, visible bool) error
	// DecrementStock subtracts quantity from the product's stock, clamped at
	// zero. It does not fail on insufficient stock.
	DecrementStock(ctx context.Context, id int64, quantity int) error
}
