// internal/adapters/out/memory/cart_repository_mem.go
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cartdom "storefront/internal/domain/cart"
)

// CartRepository keeps carts in process memory. A single mutex makes
// Update an atomic read-modify-write, matching the Firestore transaction.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]*cartdom.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: map[string]*cartdom.Cart{}}
}

func (r *CartRepository) EnsureExists(_ context.Context, ownerID string, now time.Time) error {
	id := strings.TrimSpace(ownerID)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; ok {
		return nil
	}
	c, err := cartdom.NewCart(id, now)
	if err != nil {
		return err
	}
	r.carts[id] = c
	return nil
}

func (r *CartRepository) Get(_ context.Context, ownerID string) (*cartdom.Cart, error) {
	id := strings.TrimSpace(ownerID)
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: ownerId=%s", cartdom.ErrCartNotFound, id)
	}
	return c.Clone(), nil
}

func (r *CartRepository) Update(_ context.Context, ownerID string, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	id := strings.TrimSpace(ownerID)
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: ownerId=%s", cartdom.ErrCartNotFound, id)
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	if err := work.Validate(); err != nil {
		return nil, err
	}
	r.carts[id] = work
	return work.Clone(), nil
}
