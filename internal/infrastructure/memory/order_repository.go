package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/grocermart/grocermart/internal/domain/order"

	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]*domain.Order),
		nextID: 1,
	}
}

func (r *OrderRepository) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal, meta domain.Meta) (int64, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	r.orders[id] = &domain.Order{
		ID:              id,
		UserID:          userID,
		Total:           total,
		CreatedAt:       time.Now().UTC(),
		DisplayCurrency: meta.DisplayCurrency,
		BNPLMonths:      meta.BNPLMonths,
	}
	return id, nil
}

func (r *OrderRepository) InsertItems(ctx context.Context, orderID int64, items []domain.Item) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}

	for _, it := range items {
		it.OrderID = orderID
		o.Items = append(o.Items, it)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	clone := *o
	if len(o.Items) > 0 {
		clone.Items = make([]domain.Item, len(o.Items))
		copy(clone.Items, o.Items)
	}
	return &clone
}
