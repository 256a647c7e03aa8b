// internal/adapters/out/firestore/wishlist_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	wishlistdom "storefront/internal/domain/wishlist"
)

// WishlistRepositoryFS implements wishlist.Repository using Firestore.
//
// - collection: wishlists
// - docId: owner user id
// - fields: items(map productId -> {addedAt}), createdAt, updatedAt
//
// Item writes touch only items.<productId>, never the whole map.
type WishlistRepositoryFS struct {
	Client     *firestore.Client
	Collection string
}

func NewWishlistRepositoryFS(client *firestore.Client) *WishlistRepositoryFS {
	return &WishlistRepositoryFS{Client: client, Collection: "wishlists"}
}

func (r *WishlistRepositoryFS) doc(ownerID string) (*firestore.DocumentRef, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("wishlist_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(ownerID)
	if id == "" {
		return nil, errors.New("wishlist_repository_fs: ownerID is empty")
	}
	return r.Client.Collection(r.Collection).Doc(id), nil
}

func (r *WishlistRepositoryFS) EnsureExists(ctx context.Context, ownerID string, now time.Time) error {
	ref, err := r.doc(ownerID)
	if err != nil {
		return err
	}
	now = now.UTC()
	_, err = ref.Create(ctx, map[string]any{
		"id":        ref.ID,
		"items":     map[string]any{},
		"createdAt": now,
		"updatedAt": now,
	})
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("wishlist_repository_fs: create %s: %w", ref.ID, err)
	}
	return nil
}

func (r *WishlistRepositoryFS) Get(ctx context.Context, ownerID string) (*wishlistdom.Wishlist, error) {
	ref, err := r.doc(ownerID)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, ref.ID)
		}
		return nil, err
	}
	return wishlistFromSnapshot(snap), nil
}

// AddItem checks membership and writes the item in one transaction.
func (r *WishlistRepositoryFS) AddItem(ctx context.Context, ownerID, productID string, now time.Time) error {
	ref, err := r.doc(ownerID)
	if err != nil {
		return err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return wishlistdom.ErrInvalidProductID
	}

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, ref.ID)
			}
			return err
		}
		if wishlistFromSnapshot(snap).Contains(pid) {
			return fmt.Errorf("%w: productId=%s", wishlistdom.ErrAlreadyInList, pid)
		}
		return tx.Update(ref, []firestore.Update{
			{FieldPath: firestore.FieldPath{"items", pid}, Value: map[string]any{"addedAt": now.UTC()}},
			{Path: "updatedAt", Value: now.UTC()},
		})
	})
}

func (r *WishlistRepositoryFS) RemoveItem(ctx context.Context, ownerID, productID string, now time.Time) (bool, error) {
	ref, err := r.doc(ownerID)
	if err != nil {
		return false, err
	}
	pid := strings.TrimSpace(productID)

	removed := false
	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		removed = false
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, ref.ID)
			}
			return err
		}
		if !wishlistFromSnapshot(snap).Contains(pid) {
			return nil
		}
		removed = true
		return tx.Update(ref, []firestore.Update{
			{FieldPath: firestore.FieldPath{"items", pid}, Value: firestore.Delete},
			{Path: "updatedAt", Value: now.UTC()},
		})
	})
	return removed, err
}

func (r *WishlistRepositoryFS) Clear(ctx context.Context, ownerID string, now time.Time) error {
	ref, err := r.doc(ownerID)
	if err != nil {
		return err
	}
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "items", Value: map[string]any{}},
		{Path: "updatedAt", Value: now.UTC()},
	})
	if isNotFound(err) {
		return fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, ref.ID)
	}
	return err
}

func wishlistFromSnapshot(snap *firestore.DocumentSnapshot) *wishlistdom.Wishlist {
	raw := snap.Data()
	w := &wishlistdom.Wishlist{ID: snap.Ref.ID, Items: []wishlistdom.Item{}}
	w.CreatedAt, _ = asTime(raw["createdAt"])
	w.UpdatedAt, _ = asTime(raw["updatedAt"])

	items, _ := raw["items"].(map[string]any)
	for pid, v := range items {
		it := wishlistdom.Item{ProductID: pid}
		if m, ok := v.(map[string]any); ok {
			it.AddedAt, _ = asTime(m["addedAt"])
		}
		w.Items = append(w.Items, it)
	}
	w.SortItems()
	return w
}
