package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	domain "github.com/grocermart/grocermart/internal/domain/catalog"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]*domain.Product),
		nextID:   1,
	}
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) ListVisible(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, domain.SearchFilter{})
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, domain.SearchFilter{IncludeHidden: true})
}

func (r *ProductRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Product
	for _, p := range r.products {
		if !filter.IncludeHidden && !p.Visible {
			continue
		}
		if filter.Term != "" {
			term := strings.ToLower(filter.Term)
			if !strings.Contains(strings.ToLower(p.Name), term) &&
				!strings.Contains(strconv.FormatInt(p.ID, 10), term) {
				continue
			}
		}
		if filter.Category != "" && !strings.EqualFold(filter.Category, "all") && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	switch filter.Sort {
	case domain.SortPriceAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case domain.SortPriceDesc:
		sort.Slice(out, func(i, j int) bool { return out[j].Price.LessThan(out[i].Price) })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}

	return out, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (int64, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneProduct(p)
	clone.ID = r.nextID
	r.nextID++
	r.products[clone.ID] = clone
	return clone.ID, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}

	clone := cloneProduct(p)
	if clone.Image == "" {
		clone.Image = existing.Image
	}
	clone.UpdatedAt = time.Now().UTC()
	r.products[p.ID] = clone
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) SetVisibility(ctx context.Context, id int64, visible bool) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Visible = visible
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}

	p.Quantity -= quantity
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
