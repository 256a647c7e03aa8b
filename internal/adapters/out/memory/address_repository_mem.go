// internal/adapters/out/memory/address_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"

	addressdom "storefront/internal/domain/address"
)

// AddressRepository serializes every book change behind one mutex.
type AddressRepository struct {
	mu     sync.Mutex
	byUser map[string]map[string]addressdom.Address
}

func NewAddressRepository() *AddressRepository {
	return &AddressRepository{byUser: map[string]map[string]addressdom.Address{}}
}

func (r *AddressRepository) Atomically(_ context.Context, userID string, fn func(b *addressdom.Book) error) error {
	uid := strings.TrimSpace(userID)
	r.mu.Lock()
	defer r.mu.Unlock()

	b := addressdom.NewBook(uid, r.snapshot(uid))
	if err := fn(b); err != nil {
		return err
	}

	upserts, deletes := b.Changes()
	rows := r.byUser[uid]
	if rows == nil {
		rows = map[string]addressdom.Address{}
		r.byUser[uid] = rows
	}
	for _, id := range deletes {
		delete(rows, id)
	}
	for _, a := range upserts {
		rows[a.ID] = a
	}
	return nil
}

func (r *AddressRepository) ListByUser(_ context.Context, userID string) ([]addressdom.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(strings.TrimSpace(userID)), nil
}

func (r *AddressRepository) snapshot(uid string) []addressdom.Address {
	rows := r.byUser[uid]
	out := make([]addressdom.Address, 0, len(rows))
	for _, a := range rows {
		out = append(out, a)
	}
	return out
}
