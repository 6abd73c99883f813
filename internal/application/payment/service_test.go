package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocermart/grocermart/internal/application/checkout"
	apppayment "github.com/grocermart/grocermart/internal/application/payment"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	dompayment "github.com/grocermart/grocermart/internal/domain/payment"
	"github.com/grocermart/grocermart/internal/infrastructure/gateway"
	"github.com/grocermart/grocermart/internal/infrastructure/memory"
	"github.com/grocermart/grocermart/internal/observability"
)

type paymentFixture struct {
	stub    *gateway.StubGateway
	orders  *memory.OrderRepository
	carts   *memory.CartStore
	service *apppayment.Service
}

func newPaymentFixture(t *testing.T, status dompayment.Status, opts ...apppayment.Option) *paymentFixture {
	t.Helper()

	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	carts := memory.NewCartStore()
	stub := gateway.NewStubGateway(status)

	checkoutSvc := checkout.NewService(orders, products, carts, observability.NewTestMetrics())
	svc := apppayment.NewService(
		map[apppayment.Rail]dompayment.Gateway{
			apppayment.RailCard:   stub,
			apppayment.RailWallet: stub,
		},
		checkoutSvc, carts, "SGD", observability.NewTestMetrics(), opts...,
	)

	f := &paymentFixture{stub: stub, orders: orders, carts: carts, service: svc}

	p, err := domcatalog.New("Granola", 20, decimal.RequireFromString("6.50"), "", "", "")
	require.NoError(t, err)
	pid, err := products.Insert(context.Background(), p)
	require.NoError(t, err)

	err = carts.Update(context.Background(), "sess", func(c *domcart.Cart) error {
		c.Items = append(c.Items, domcart.Item{
			ProductID:   pid,
			ProductName: "Granola",
			Price:       p.Price,
			Quantity:    2,
		})
		return nil
	})
	require.NoError(t, err)

	return f
}

func TestCompleteRedirect_PlacesOrder(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)
	ctx := context.Background()

	session, err := f.stub.CreateSession(ctx, decimal.RequireFromString("13.00"), "SGD", nil)
	require.NoError(t, err)

	result, err := f.service.CompleteRedirect(ctx, apppayment.RailCard, session.Reference, 1, "sess", domorder.Meta{})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(decimal.RequireFromString("13.00")))

	orders, err := f.orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCompleteRedirect_UnknownRail(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)

	_, err := f.service.CompleteRedirect(context.Background(), "crypto", "ref", 1, "sess", domorder.Meta{})
	require.ErrorIs(t, err, apppayment.ErrUnknownRail)
}

func TestCompleteRedirect_Declined(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusFailed)
	ctx := context.Background()

	session, err := f.stub.CreateSession(ctx, decimal.RequireFromString("13.00"), "SGD", nil)
	require.NoError(t, err)

	_, err = f.service.CompleteRedirect(ctx, apppayment.RailCard, session.Reference, 1, "sess", domorder.Meta{})
	require.ErrorIs(t, err, dompayment.ErrDeclined)

	orders, err := f.orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders, "no order on a declined payment")

	c, err := f.carts.Get(ctx, "sess")
	require.NoError(t, err)
	assert.False(t, c.IsEmpty(), "cart survives a declined payment")
}

func TestCreateIntent_ComputesAmountServerSide(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)
	ctx := context.Background()

	session, err := f.service.CreateIntent(ctx, apppayment.RailWallet, 1, "sess", domorder.Meta{})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Reference)
	assert.NotEmpty(t, session.ClientToken)

	conf, err := f.stub.Confirm(ctx, session.Reference)
	require.NoError(t, err)
	assert.True(t, conf.Amount.Equal(decimal.RequireFromString("13.00")),
		"the gateway saw the recomputed cart total")
}

func TestCreateIntent_EmptyCart(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)

	_, err := f.service.CreateIntent(context.Background(), apppayment.RailCard, 1, "other-sess", domorder.Meta{})
	require.ErrorIs(t, err, domcart.ErrEmpty)
}

func TestCapture_PlacesOrderOnce(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)
	ctx := context.Background()

	session, err := f.service.CreateIntent(ctx, apppayment.RailCard, 4, "sess", domorder.Meta{BNPLMonths: 3})
	require.NoError(t, err)

	result, err := f.service.Capture(ctx, apppayment.RailCard, session.Reference)
	require.NoError(t, err)

	stored, err := f.orders.Get(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.UserID)
	assert.Equal(t, 3, stored.BNPLMonths)

	c, err := f.carts.Get(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCapture_UnknownReference(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)

	_, err := f.service.Capture(context.Background(), apppayment.RailCard, "nope")
	require.ErrorIs(t, err, apppayment.ErrIntentUnknown)
}

func TestCapture_RepeatedCapturePlacesSecondOrder(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPaid)
	ctx := context.Background()

	session, err := f.service.CreateIntent(ctx, apppayment.RailCard, 9, "sess", domorder.Meta{})
	require.NoError(t, err)

	first, err := f.service.Capture(ctx, apppayment.RailCard, session.Reference)
	require.NoError(t, err)

	// Refill the cart as a retrying client would still hold its state.
	err = f.carts.Update(ctx, "sess", func(c *domcart.Cart) error {
		c.Items = append(c.Items, domcart.Item{
			ProductID:   1,
			ProductName: "Granola",
			Price:       decimal.RequireFromString("6.50"),
			Quantity:    1,
		})
		return nil
	})
	require.NoError(t, err)

	// There is no idempotence on the local insert: a replayed capture for
	// the same reference produces a second, distinct order.
	second, err := f.service.Capture(ctx, apppayment.RailCard, session.Reference)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, second.OrderID)

	all, err := f.orders.ListByUser(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConfirm_PendingGivesUpAfterBoundedAttempts(t *testing.T) {
	f := newPaymentFixture(t, dompayment.StatusPending,
		apppayment.WithConfirmPolicy(3, time.Millisecond))
	ctx := context.Background()

	session, err := f.stub.CreateSession(ctx, decimal.RequireFromString("13.00"), "SGD", nil)
	require.NoError(t, err)

	_, err = f.service.CompleteRedirect(ctx, apppayment.RailCard, session.Reference, 1, "sess", domorder.Meta{})
	require.ErrorIs(t, err, dompayment.ErrPending)
	assert.Equal(t, 3, f.stub.ConfirmCalls(session.Reference))
}
