package wishlist

import (
	"context"
	"errors"
	"fmt"

	appcart "github.com/grocermart/grocermart/internal/application/cart"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domwishlist "github.com/grocermart/grocermart/internal/domain/wishlist"
	"github.com/grocermart/grocermart/internal/pkg/logging"

	"go.uber.org/zap"
)

// MoveResult summarizes a move-all-to-cart run. Skipped products stay on the
// wishlist so the customer can retry once they restock.
type MoveResult struct {
	Moved   int
	Skipped []string
}

// Service wraps the wishlist repository with the cart handoff flow.
type Service struct {
	repo domwishlist.Repository
	cart *appcart.Service
}

func NewService(repo domwishlist.Repository, cart *appcart.Service) *Service {
	return &Service{
		repo: repo,
		cart: cart,
	}
}

func (s *Service) Add(ctx context.Context, userID, productID int64, notes string) error {
	return s.repo.Add(ctx, userID, productID, notes)
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.repo.Remove(ctx, userID, productID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domwishlist.Entry, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) UpdateNotes(ctx context.Context, userID, productID int64, notes string) error {
	return s.repo.UpdateNotes(ctx, userID, productID, notes)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}

// MoveAllToCart adds one unit of every in-stock wishlist product to the
// session cart and removes the moved entries. Out-of-stock products and
// products whose stock the cart already exhausts are skipped, not failed.
func (s *Service) MoveAllToCart(ctx context.Context, userID int64, sessionID string) (*MoveResult, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "wishlist_service"))

	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wishlist: list entries: %w", err)
	}

	result := &MoveResult{}
	var insufficient *domcart.InsufficientStockError
	for _, e := range entries {
		if e.Stock <= 0 || !e.Visible {
			result.Skipped = append(result.Skipped, e.ProductName)
			continue
		}

		err := s.cart.AddItem(ctx, sessionID, e.ProductID, 1)
		switch {
		case err == nil:
		case errors.Is(err, domcart.ErrOutOfStock), errors.As(err, &insufficient):
			result.Skipped = append(result.Skipped, e.ProductName)
			continue
		default:
			return nil, fmt.Errorf("wishlist: move product %d: %w", e.ProductID, err)
		}

		if err := s.repo.Remove(ctx, userID, e.ProductID); err != nil {
			return nil, fmt.Errorf("wishlist: remove moved entry: %w", err)
		}
		result.Moved++
	}

	logger.Info("wishlist_moved_to_cart",
		zap.Int64("user_id", userID),
		zap.Int("moved", result.Moved),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
