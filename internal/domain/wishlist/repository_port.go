// internal/domain/wishlist/repository_port.go
package wishlist

import (
	"context"
	"time"
)

// Repository is a persistence port for Wishlist.
//
// Mutations are targeted single-item operations so two concurrent adds of
// different products never overwrite each other.
//
// Storage:
// - Firestore: collection "wishlists", docId = owner user id, items map keyed by productId
// - Redis:     hash "wishlist:{ownerId}:items" (field = productId, value = addedAt)
type Repository interface {
	// EnsureExists creates an empty wishlist if none exists (idempotent).
	EnsureExists(ctx context.Context, ownerID string, now time.Time) error

	// Get returns ErrWishlistNotFound when the owner has no wishlist.
	Get(ctx context.Context, ownerID string) (*Wishlist, error)

	// AddItem inserts productID only if absent; otherwise ErrAlreadyInList.
	AddItem(ctx context.Context, ownerID, productID string, now time.Time) error

	// RemoveItem reports whether the item was present. Absent is not an error.
	RemoveItem(ctx context.Context, ownerID, productID string, now time.Time) (bool, error)

	// Clear removes every item but keeps the wishlist.
	Clear(ctx context.Context, ownerID string, now time.Time) error
}
