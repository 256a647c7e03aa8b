// internal/domain/cart/repository_port.go
package cart

import (
	"context"
	"time"
)

// Repository is a persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: owner user id
// - fields: lines(array), createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on the "expiresAt" field.
// - expiresAt is refreshed on each cart mutation (handled by domain via touch()).
type Repository interface {
	// EnsureExists creates an empty cart for the owner if none exists.
	// Concurrent callers must never produce two carts or lose an existing one.
	EnsureExists(ctx context.Context, ownerID string, now time.Time) error

	// Get returns ErrCartNotFound when the owner has no cart.
	Get(ctx context.Context, ownerID string) (*Cart, error)

	// Update runs fn on the stored cart and persists the result as one atomic
	// read-modify-write. fn may be retried by the store; it must not have side effects
	// outside the cart. If fn returns an error nothing is written.
	Update(ctx context.Context, ownerID string, fn func(c *Cart) error) (*Cart, error)
}
