package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/grocermart/grocermart/internal/domain/wishlist"
)

type wishlistKey struct {
	userID    int64
	productID int64
}

type wishlistRow struct {
	notes   string
	addedAt time.Time
}

// WishlistRepository joins against a ProductRepository on list, mirroring
// the SQL implementation's joined snapshot.
type WishlistRepository struct {
	mu       sync.RWMutex
	rows     map[wishlistKey]*wishlistRow
	products *ProductRepository
}

func NewWishlistRepository(products *ProductRepository) *WishlistRepository {
	return &WishlistRepository{
		rows:     make(map[wishlistKey]*wishlistRow),
		products: products,
	}
}

func (r *WishlistRepository) Add(ctx context.Context, userID, productID int64, notes string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := wishlistKey{userID: userID, productID: productID}
	if row, ok := r.rows[key]; ok {
		row.notes = notes
		return nil
	}
	r.rows[key] = &wishlistRow{notes: notes, addedAt: time.Now().UTC()}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID int64) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rows, wishlistKey{userID: userID, productID: productID})
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, userID int64) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Entry
	for key, row := range r.rows {
		if key.userID != userID {
			continue
		}
		p, err := r.products.Get(ctx, key.productID)
		if err != nil {
			// product deleted since listing; skip the dangling row
			continue
		}
		out = append(out, &domain.Entry{
			UserID:      userID,
			ProductID:   key.productID,
			Notes:       row.notes,
			AddedAt:     row.addedAt,
			ProductName: p.Name,
			Price:       p.Price,
			Stock:       p.Quantity,
			Image:       p.Image,
			Category:    p.Category,
			Visible:     p.Visible,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (r *WishlistRepository) UpdateNotes(ctx context.Context, userID, productID int64, notes string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[wishlistKey{userID: userID, productID: productID}]
	if !ok {
		return domain.ErrNotFound
	}
	row.notes = notes
	return nil
}

func (r *WishlistRepository) Clear(ctx context.Context, userID int64) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.rows {
		if key.userID == userID {
			delete(r.rows, key)
		}
	}
	return nil
}
