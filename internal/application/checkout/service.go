package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	"github.com/grocermart/grocermart/internal/observability"
	"github.com/grocermart/grocermart/internal/pkg/logging"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	// ErrOrderPersistence means the order header insert failed; nothing was
	// written and the cart is preserved for retry.
	ErrOrderPersistence = errors.New("checkout: order could not be persisted")
	// ErrOrderItemPersistence means the line insert failed after the header
	// row already existed. The empty order is left behind as a recoverable
	// orphan; the underlying store writes sequentially, not transactionally.
	ErrOrderItemPersistence = errors.New("checkout: order items could not be persisted")
)

// Result reports a successfully placed order. StockWarnings names products
// whose stock decrement failed; the order itself still stands.
type Result struct {
	OrderID       int64
	Total         decimal.Decimal
	StockWarnings []string
}

// Service runs the order placement workflow: validate the cart, persist the
// header and lines, decrement stock best-effort, clear the cart.
type Service struct {
	orders  domorder.Repository
	catalog domcatalog.Repository
	carts   domcart.Store
	metrics *observability.Metrics
}

func NewService(orders domorder.Repository, catalog domcatalog.Repository, carts domcart.Store, metrics *observability.Metrics) *Service {
	return &Service{
		orders:  orders,
		catalog: catalog,
		carts:   carts,
		metrics: metrics,
	}
}

// PlaceOrder reads the session's cart and places it as an order for userID.
// Calling it twice with the same cart places two orders; the caller must
// rely on the cart being cleared on success and must not re-submit blindly.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, sessionID string, meta domorder.Meta) (*Result, error) {
	snapshot, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("checkout: read cart: %w", err)
	}
	return s.Place(ctx, userID, snapshot, meta)
}

// Place runs the workflow against an explicit cart snapshot. The grand total
// is always recomputed here, never trusted from caller input.
func (s *Service) Place(ctx context.Context, userID int64, snapshot *domcart.Cart, meta domorder.Meta) (_ *Result, err error) {
	if snapshot == nil || snapshot.IsEmpty() {
		return nil, domcart.ErrEmpty
	}

	logger := logging.FromContext(ctx).With(zap.String("component", "checkout_service"))

	tracer := otel.Tracer("grocermart.checkout")
	ctx, span := tracer.Start(ctx, "UC.PlaceOrder")
	span.SetAttributes(
		attribute.Int64("order.user_id", userID),
		attribute.Int("cart.lines", len(snapshot.Items)),
	)

	start := time.Now()
	outcome := "success"
	defer func() {
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		s.metrics.CheckoutRequests.WithLabelValues(outcome).Inc()
		s.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}()

	lines, total := snapshot.Totals()
	logger.Info("place_order_start",
		zap.Int64("user_id", userID),
		zap.String("session_id", snapshot.SessionID),
		zap.Int("lines", len(lines)),
		zap.String("total", total.String()),
	)

	orderID, err := s.orders.InsertOrder(ctx, userID, total, meta)
	if err != nil {
		logger.Error("order_insert_failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOrderPersistence, err)
	}

	items := make([]domorder.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, domorder.Item{
			OrderID:     orderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}

	if err := s.orders.InsertItems(ctx, orderID, items); err != nil {
		// The header row now exists with zero items; left for reconciliation.
		logger.Error("order_items_insert_failed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrOrderItemPersistence, err)
	}

	// Each decrement is independent and best-effort: inventory drift is a
	// recoverable anomaly, not a checkout-blocking failure.
	var warnings []string
	for _, it := range items {
		if derr := s.catalog.DecrementStock(ctx, it.ProductID, it.Quantity); derr != nil {
			logger.Warn("stock_decrement_failed",
				zap.Int64("order_id", orderID),
				zap.Int64("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity),
				zap.Error(derr),
			)
			s.metrics.StockDecrementFailures.Inc()
			warnings = append(warnings, it.ProductName)
		}
	}

	if cerr := s.carts.Clear(ctx, snapshot.SessionID); cerr != nil {
		logger.Warn("cart_clear_failed",
			zap.String("session_id", snapshot.SessionID),
			zap.Error(cerr),
		)
	}

	logger.Info("place_order_success",
		zap.Int64("order_id", orderID),
		zap.String("total", total.String()),
		zap.Int("stock_warnings", len(warnings)),
	)

	span.SetAttributes(attribute.Int64("order.id", orderID))

	return &Result{
		OrderID:       orderID,
		Total:         total,
		StockWarnings: warnings,
	}, nil
}
