package memory

import (
	"context"
	"sync"

	domain "github.com/grocermart/grocermart/internal/domain/cart"
)

// CartStore keeps session carts in process memory. All mutations run under
// the store lock so a read-modify-write cycle is atomic per session.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string]*domain.Cart),
	}
}

func (s *CartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	return c.Clone(), nil
}

func (s *CartStore) Update(ctx context.Context, sessionID string, fn func(c *domain.Cart) error) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = &domain.Cart{SessionID: sessionID}
	}

	if err := fn(c); err != nil {
		return err
	}

	s.carts[sessionID] = c
	return nil
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
