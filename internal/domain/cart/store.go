package cart

import "context"

// Store owns the session-scoped carts. Mutations go through Update so each
// read-modify-write cycle is atomic per session; handlers never touch a
// shared cart slice directly.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	// Update applies fn to the session's cart under the store's lock.
	// A nil-safe empty cart is created on first use.
	Update(ctx context.Context, sessionID string, fn func(c *Cart) error) error
	Clear(ctx context.Context, sessionID string) error
}
