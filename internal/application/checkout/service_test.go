package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/grocermart/grocermart/internal/application/checkout"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	"github.com/grocermart/grocermart/internal/infrastructure/memory"
	"github.com/grocermart/grocermart/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// decimal.Decimal carries an internal exponent, so equal amounts can differ
// structurally; diff them by value.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

type fixture struct {
	products *memory.ProductRepository
	orders   domorder.Repository
	carts    *memory.CartStore
	service  *checkout.Service
}

func newFixture(t *testing.T, orders domorder.Repository) *fixture {
	t.Helper()

	products := memory.NewProductRepository()
	carts := memory.NewCartStore()
	if orders == nil {
		orders = memory.NewOrderRepository()
	}
	return &fixture{
		products: products,
		orders:   orders,
		carts:    carts,
		service:  checkout.NewService(orders, products, carts, observability.NewTestMetrics()),
	}
}

func (f *fixture) seedProduct(t *testing.T, name string, stock int, price string) *domcatalog.Product {
	t.Helper()

	p, err := domcatalog.New(name, stock, decimal.RequireFromString(price), "", "", "groceries")
	require.NoError(t, err)

	id, err := f.products.Insert(context.Background(), p)
	require.NoError(t, err)
	p.ID = id
	return p
}

func (f *fixture) fillCart(t *testing.T, sessionID string, p *domcatalog.Product, quantity int) {
	t.Helper()

	err := f.carts.Update(context.Background(), sessionID, func(c *domcart.Cart) error {
		c.Items = append(c.Items, domcart.Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    quantity,
		})
		return nil
	})
	require.NoError(t, err)
}

func TestPlaceOrder_RecomputesTotalFromCart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	oatMilk := f.seedProduct(t, "Oat Milk 1L", 10, "3.50")
	f.fillCart(t, "sess-1", oatMilk, 2)

	result, err := f.service.PlaceOrder(ctx, 1, "sess-1", domorder.Meta{})
	require.NoError(t, err)

	assert.True(t, result.Total.Equal(decimal.RequireFromString("7.00")),
		"total should be 3.50 x 2 = 7.00, got %s", result.Total)

	stored, err := f.orders.Get(ctx, result.OrderID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(result.Total))

	want := []domorder.Item{{
		OrderID:     result.OrderID,
		ProductID:   oatMilk.ID,
		ProductName: "Oat Milk 1L",
		Price:       oatMilk.Price,
		Quantity:    2,
	}}
	if diff := cmp.Diff(want, stored.Items, decimalComparer); diff != "" {
		t.Errorf("stored items mismatch (-want +got):\n%s", diff)
	}
}

func TestPlace_NilCartRejected(t *testing.T) {
	orders := &recordingOrderRepository{Repository: memory.NewOrderRepository()}
	f := newFixture(t, orders)

	_, err := f.service.Place(context.Background(), 1, nil, domorder.Meta{})
	require.ErrorIs(t, err, domcart.ErrEmpty)
	assert.Zero(t, orders.insertOrderCalls)
}

func TestPlaceOrder_EmptyCartRejectedBeforeAnyWrite(t *testing.T) {
	orders := &recordingOrderRepository{Repository: memory.NewOrderRepository()}
	f := newFixture(t, orders)

	_, err := f.service.PlaceOrder(context.Background(), 1, "empty-sess", domorder.Meta{})
	require.ErrorIs(t, err, domcart.ErrEmpty)

	assert.Zero(t, orders.insertOrderCalls, "no header insert for an empty cart")
	assert.Zero(t, orders.insertItemsCalls, "no item insert for an empty cart")
}

func TestPlaceOrder_ClearsCartOnSuccess(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p := f.seedProduct(t, "Eggs 12pk", 5, "4.20")
	f.fillCart(t, "sess-2", p, 1)

	_, err := f.service.PlaceOrder(ctx, 7, "sess-2", domorder.Meta{})
	require.NoError(t, err)

	c, err := f.carts.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestPlaceOrder_DecrementsStockClampedAtZero(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p := f.seedProduct(t, "Bananas", 1, "0.90")
	f.fillCart(t, "sess-3", p, 3)

	result, err := f.service.PlaceOrder(ctx, 1, "sess-3", domorder.Meta{})
	require.NoError(t, err)
	assert.Empty(t, result.StockWarnings, "a clamped decrement is not a failure")

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity, "stock clamps at zero instead of going negative")
}

func TestPlaceOrder_StockFailureKeepsOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p := f.seedProduct(t, "Coffee Beans", 4, "12.00")
	f.fillCart(t, "sess-4", p, 1)

	// Deleting the product between cart fill and checkout makes the
	// decrement fail while the order itself still goes through.
	require.NoError(t, f.products.Delete(ctx, p.ID))

	result, err := f.service.PlaceOrder(ctx, 1, "sess-4", domorder.Meta{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee Beans"}, result.StockWarnings)

	stored, err := f.orders.Get(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestPlaceOrder_HeaderInsertFailurePreservesCart(t *testing.T) {
	orders := &recordingOrderRepository{
		Repository: memory.NewOrderRepository(),
		failInsert: true,
	}
	f := newFixture(t, orders)
	ctx := context.Background()

	p := f.seedProduct(t, "Rice 5kg", 8, "9.80")
	f.fillCart(t, "sess-5", p, 2)

	_, err := f.service.PlaceOrder(ctx, 1, "sess-5", domorder.Meta{})
	require.ErrorIs(t, err, checkout.ErrOrderPersistence)

	c, err := f.carts.Get(ctx, "sess-5")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty(), "cart is preserved for retry")

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity, "stock untouched when nothing was placed")
}

func TestPlaceOrder_ItemInsertFailureLeavesOrphanedHeader(t *testing.T) {
	orders := &recordingOrderRepository{
		Repository:      memory.NewOrderRepository(),
		failInsertItems: true,
	}
	f := newFixture(t, orders)
	ctx := context.Background()

	p := f.seedProduct(t, "Butter 250g", 6, "5.40")
	f.fillCart(t, "sess-6", p, 1)

	_, err := f.service.PlaceOrder(ctx, 3, "sess-6", domorder.Meta{})
	require.ErrorIs(t, err, checkout.ErrOrderItemPersistence)

	// The header write already happened; the zero-item order stays behind.
	require.Equal(t, 1, orders.insertOrderCalls)
	all, err := orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Items)

	c, err := f.carts.Get(ctx, "sess-6")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty(), "cart survives a failed placement")

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestPlaceOrder_ConcurrentCheckoutsBothSucceed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// Stock covers either cart alone but not both. Neither checkout guards
	// against the other; both orders are accepted and stock bottoms out at
	// zero.
	p := f.seedProduct(t, "Salmon Fillet", 5, "15.00")
	f.fillCart(t, "sess-a", p, 5)
	f.fillCart(t, "sess-b", p, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, sess := range []string{"sess-a", "sess-b"} {
		wg.Add(1)
		go func(i int, sess string) {
			defer wg.Done()
			_, errs[i] = f.service.PlaceOrder(ctx, int64(i+1), sess, domorder.Meta{})
		}(i, sess)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestPlaceOrder_MetaSnapshottedOntoOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p := f.seedProduct(t, "Olive Oil", 3, "11.90")
	f.fillCart(t, "sess-7", p, 1)

	result, err := f.service.PlaceOrder(ctx, 1, "sess-7", domorder.Meta{
		DisplayCurrency: "USD",
		BNPLMonths:      6,
	})
	require.NoError(t, err)

	stored, err := f.orders.Get(ctx, result.OrderID)
	require.NoError(t, err)

	got := domorder.Meta{DisplayCurrency: stored.DisplayCurrency, BNPLMonths: stored.BNPLMonths}
	if diff := cmp.Diff(domorder.Meta{DisplayCurrency: "USD", BNPLMonths: 6}, got); diff != "" {
		t.Errorf("snapshotted meta mismatch (-want +got):\n%s", diff)
	}
}

// recordingOrderRepository wraps the in-memory repository with call counting
// and scripted failures.
type recordingOrderRepository struct {
	domorder.Repository

	mu               sync.Mutex
	insertOrderCalls int
	insertItemsCalls int
	failInsert       bool
	failInsertItems  bool
}

func (r *recordingOrderRepository) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal, meta domorder.Meta) (int64, error) {
	r.mu.Lock()
	r.insertOrderCalls++
	fail := r.failInsert
	r.mu.Unlock()

	if fail {
		return 0, errors.New("connection reset")
	}
	return r.Repository.InsertOrder(ctx, userID, total, meta)
}

func (r *recordingOrderRepository) InsertItems(ctx context.Context, orderID int64, items []domorder.Item) error {
	r.mu.Lock()
	r.insertItemsCalls++
	fail := r.failInsertItems
	r.mu.Unlock()

	if fail {
		return errors.New("connection reset")
	}
	return r.Repository.InsertItems(ctx, orderID, items)
}
