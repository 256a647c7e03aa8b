// internal/adapters/out/memory/wishlist_repository_mem.go
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	wishlistdom "storefront/internal/domain/wishlist"
)

type WishlistRepository struct {
	mu    sync.Mutex
	lists map[string]*wishlistdom.Wishlist
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{lists: map[string]*wishlistdom.Wishlist{}}
}

func (r *WishlistRepository) EnsureExists(_ context.Context, ownerID string, now time.Time) error {
	id := strings.TrimSpace(ownerID)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[id]; ok {
		return nil
	}
	w, err := wishlistdom.New(id, now)
	if err != nil {
		return err
	}
	r.lists[id] = w
	return nil
}

func (r *WishlistRepository) Get(_ context.Context, ownerID string) (*wishlistdom.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.lookup(ownerID)
	if err != nil {
		return nil, err
	}
	return w.Clone(), nil
}

func (r *WishlistRepository) AddItem(_ context.Context, ownerID, productID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.lookup(ownerID)
	if err != nil {
		return err
	}
	return w.Add(productID, now)
}

func (r *WishlistRepository) RemoveItem(_ context.Context, ownerID, productID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.lookup(ownerID)
	if err != nil {
		return false, err
	}
	return w.Remove(productID, now), nil
}

func (r *WishlistRepository) Clear(_ context.Context, ownerID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.lookup(ownerID)
	if err != nil {
		return err
	}
	w.Clear(now)
	return nil
}

// lookup must be called with mu held.
func (r *WishlistRepository) lookup(ownerID string) (*wishlistdom.Wishlist, error) {
	id := strings.TrimSpace(ownerID)
	w, ok := r.lists[id]
	if !ok {
		return nil, fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, id)
	}
	return w, nil
}
