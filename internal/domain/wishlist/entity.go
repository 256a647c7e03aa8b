// internal/domain/wishlist/entity.go
package wishlist

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/domain/common"
)

var (
	ErrInvalidWishlist  = errors.New("wishlist: invalid")
	ErrInvalidProductID = fmt.Errorf("%w: wishlist: productId is empty", common.ErrInvalidArgument)
	ErrAlreadyInList    = fmt.Errorf("%w: wishlist: product already saved", common.ErrDuplicate)
	ErrItemNotFound     = fmt.Errorf("%w: wishlist item", common.ErrNotFound)
	ErrWishlistNotFound = fmt.Errorf("%w: wishlist", common.ErrNotFound)
)

// Item is one saved product.
type Item struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Wishlist is the per-user set of saved products (docId = owner user id).
type Wishlist struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New(ownerID string, now time.Time) (*Wishlist, error) {
	now = now.UTC()
	w := &Wishlist{
		ID:        strings.TrimSpace(ownerID),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Add inserts productID. A product already in the set is rejected with ErrAlreadyInList.
func (w *Wishlist) Add(productID string, now time.Time) error {
	if w == nil {
		return ErrInvalidWishlist
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidProductID
	}
	if w.Contains(pid) {
		return fmt.Errorf("%w: productId=%s", ErrAlreadyInList, pid)
	}
	w.Items = append(w.Items, Item{ProductID: pid, AddedAt: now.UTC()})
	w.UpdatedAt = now.UTC()
	return nil
}

// Remove reports whether productID was present.
func (w *Wishlist) Remove(productID string, now time.Time) bool {
	if w == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for i := range w.Items {
		if w.Items[i].ProductID == pid {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.UpdatedAt = now.UTC()
			return true
		}
	}
	return false
}

func (w *Wishlist) Clear(now time.Time) {
	if w == nil {
		return
	}
	w.Items = []Item{}
	w.UpdatedAt = now.UTC()
}

func (w *Wishlist) Contains(productID string) bool {
	if w == nil {
		return false
	}
	pid := strings.TrimSpace(productID)
	for _, it := range w.Items {
		if it.ProductID == pid {
			return true
		}
	}
	return false
}

func (w *Wishlist) Count() int {
	if w == nil {
		return 0
	}
	return len(w.Items)
}

// SortItems orders items by AddedAt (oldest first), productId as tie-break.
// Stores that keep items in a map call this after loading.
func (w *Wishlist) SortItems() {
	if w == nil {
		return
	}
	sort.SliceStable(w.Items, func(i, j int) bool {
		a, b := w.Items[i], w.Items[j]
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.Before(b.AddedAt)
		}
		return a.ProductID < b.ProductID
	})
}

func (w *Wishlist) Validate() error {
	if w == nil || strings.TrimSpace(w.ID) == "" {
		return ErrInvalidWishlist
	}
	if w.CreatedAt.IsZero() || w.UpdatedAt.IsZero() {
		return ErrInvalidWishlist
	}
	seen := make(map[string]struct{}, len(w.Items))
	for _, it := range w.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return ErrInvalidWishlist
		}
		if _, dup := seen[it.ProductID]; dup {
			return fmt.Errorf("%w: duplicate productId %s", ErrInvalidWishlist, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}

func (w *Wishlist) Clone() *Wishlist {
	if w == nil {
		return nil
	}
	cp := *w
	cp.Items = make([]Item, len(w.Items))
	copy(cp.Items, w.Items)
	return &cp
}
