// internal/adapters/out/redis/wishlist_repository_redis.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	wishlistdom "storefront/internal/domain/wishlist"
)

// WishlistRepositoryRedis implements wishlist.Repository with two hashes per owner:
//
//	{prefix}{ownerId}:meta   createdAt / updatedAt
//	{prefix}{ownerId}:items  productId -> addedAt (RFC3339Nano)
//
// HSETNX makes AddItem an insert-if-absent, so concurrent adds never clobber each other.
type WishlistRepositoryRedis struct {
	Client goredis.UniversalClient
	Prefix string
}

func NewWishlistRepositoryRedis(client goredis.UniversalClient) *WishlistRepositoryRedis {
	return &WishlistRepositoryRedis{Client: client, Prefix: "wishlist:"}
}

func (r *WishlistRepositoryRedis) metaKey(uid string) string  { return r.Prefix + uid + ":meta" }
func (r *WishlistRepositoryRedis) itemsKey(uid string) string { return r.Prefix + uid + ":items" }

func (r *WishlistRepositoryRedis) owner(ownerID string) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("wishlist_repository_redis: client is nil")
	}
	uid := strings.TrimSpace(ownerID)
	if uid == "" {
		return "", fmt.Errorf("%w: ownerID is empty", wishlistdom.ErrInvalidWishlist)
	}
	return uid, nil
}

func (r *WishlistRepositoryRedis) EnsureExists(ctx context.Context, ownerID string, now time.Time) error {
	uid, err := r.owner(ownerID)
	if err != nil {
		return err
	}
	ts := formatTime(now)
	_, err = r.Client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSetNX(ctx, r.metaKey(uid), "createdAt", ts)
		p.HSetNX(ctx, r.metaKey(uid), "updatedAt", ts)
		return nil
	})
	return err
}

func (r *WishlistRepositoryRedis) Get(ctx context.Context, ownerID string) (*wishlistdom.Wishlist, error) {
	uid, err := r.owner(ownerID)
	if err != nil {
		return nil, err
	}

	var metaCmd, itemsCmd *goredis.MapStringStringCmd
	if _, err := r.Client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		metaCmd = p.HGetAll(ctx, r.metaKey(uid))
		itemsCmd = p.HGetAll(ctx, r.itemsKey(uid))
		return nil
	}); err != nil {
		return nil, err
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return nil, fmt.Errorf("%w: ownerId=%s", wishlistdom.ErrWishlistNotFound, uid)
	}

	w := &wishlistdom.Wishlist{ID: uid, Items: []wishlistdom.Item{}}
	w.CreatedAt, _ = parseTime(meta["createdAt"])
	w.UpdatedAt, _ = parseTime(meta["updatedAt"])
	for pid, raw := range itemsCmd.Val() {
		addedAt, _ := parseTime(raw)
		w.Items = append(w.Items, wishlistdom.Item{ProductID: pid, AddedAt: addedAt})
	}
	w.SortItems()
	return w, nil
}

func (r *WishlistRepositoryRedis) AddItem(ctx context.Context, ownerID, productID string, now time.Time) error {
	uid, err := r.owner(ownerID)
	if err != nil {
		return err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return wishlistdom.ErrInvalidProductID
	}

	added, err := r.Client.HSetNX(ctx, r.itemsKey(uid), pid, formatTime(now)).Result()
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("%w: productId=%s", wishlistdom.ErrAlreadyInList, pid)
	}
	return r.Client.HSet(ctx, r.metaKey(uid), "updatedAt", formatTime(now)).Err()
}

func (r *WishlistRepositoryRedis) RemoveItem(ctx context.Context, ownerID, productID string, now time.Time) (bool, error) {
	uid, err := r.owner(ownerID)
	if err != nil {
		return false, err
	}
	n, err := r.Client.HDel(ctx, r.itemsKey(uid), strings.TrimSpace(productID)).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return true, r.Client.HSet(ctx, r.metaKey(uid), "updatedAt", formatTime(now)).Err()
}

func (r *WishlistRepositoryRedis) Clear(ctx context.Context, ownerID string, now time.Time) error {
	uid, err := r.owner(ownerID)
	if err != nil {
		return err
	}
	_, err = r.Client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, r.itemsKey(uid))
		p.HSet(ctx, r.metaKey(uid), "updatedAt", formatTime(now))
		return nil
	})
	return err
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
