// internal/domain/address/repository_port.go
package address

import "context"

// Repository persists address books.
//
// Atomically loads every address of userID into a Book, runs fn, and writes
// Book.Changes() in the same atomic unit. Concurrent calls for the same user are
// serialized by the store (Firestore transaction / Postgres advisory lock).
// If fn returns an error nothing is written.
type Repository interface {
	Atomically(ctx context.Context, userID string, fn func(b *Book) error) error

	// ListByUser is a read-only snapshot for listing.
	ListByUser(ctx context.Context, userID string) ([]Address, error)
}
