package cart

import (
	"context"
	"fmt"

	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	"github.com/grocermart/grocermart/internal/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service guards cart mutations. Stock is validated on add and again at
// final checkout, not on quantity updates.
type Service struct {
	store   domcart.Store
	catalog domcatalog.Repository
}

func NewService(store domcart.Store, catalog domcatalog.Repository) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
	}
}

// AddItem merges quantity into the session cart after checking the product's
// current stock. The product's current price and name become the snapshot.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "cart_service"))

	if quantity <= 0 {
		return domcart.ErrInvalidQuantity
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("cart: fetch product: %w", err)
	}
	if !product.InStock() {
		return domcart.ErrOutOfStock
	}

	err = s.store.Update(ctx, sessionID, func(c *domcart.Cart) error {
		existing := 0
		if it := c.Find(productID); it != nil {
			existing = it.Quantity
		}
		if existing+quantity > product.Quantity {
			return &domcart.InsufficientStockError{
				ProductID: productID,
				Remaining: product.Quantity - existing,
			}
		}

		if it := c.Find(productID); it != nil {
			it.Quantity += quantity
			return nil
		}
		c.Items = append(c.Items, domcart.Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    quantity,
			Image:       product.Image,
		})
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("cart_item_added",
		zap.String("session_id", sessionID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return nil
}

// UpdateQuantity replaces the stored quantity without re-checking stock.
// Zero removes the entry; negative values are clamped to zero.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if quantity < 0 {
		quantity = 0
	}

	return s.store.Update(ctx, sessionID, func(c *domcart.Cart) error {
		it := c.Find(productID)
		if it == nil {
			return domcart.ErrItemNotFound
		}
		if quantity == 0 {
			removeItem(c, productID)
			return nil
		}
		it.Quantity = quantity
		return nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	return s.store.Update(ctx, sessionID, func(c *domcart.Cart) error {
		removeItem(c, productID)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

func (s *Service) Get(ctx context.Context, sessionID string) (*domcart.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// Totals returns the priced lines and grand total for the session's cart.
func (s *Service) Totals(ctx context.Context, sessionID string) ([]domcart.Line, decimal.Decimal, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	lines, total := c.Totals()
	return lines, total, nil
}

func removeItem(c *domcart.Cart, productID int64) {
	items := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	c.Items = items
}
