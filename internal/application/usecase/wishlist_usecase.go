// internal/application/usecase/wishlist_usecase.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	wishlistdom "storefront/internal/domain/wishlist"
	"storefront/internal/platform/logger"
)

// WishlistUsecase coordinates wishlist operations and the move-to-cart flow.
type WishlistUsecase struct {
	repo    wishlistdom.Repository
	catalog catalogdom.Resolver
	carts   *CartUsecase
	events  EventPublisher
	clock   Clock
	log     *logger.Logger
}

func NewWishlistUsecase(repo wishlistdom.Repository, catalog catalogdom.Resolver, carts *CartUsecase) *WishlistUsecase {
	return &WishlistUsecase{
		repo:    repo,
		catalog: catalog,
		carts:   carts,
		events:  nopPublisher{},
		clock:   systemClock{},
		log:     logger.Nop(),
	}
}

func (uc *WishlistUsecase) WithClock(c Clock) *WishlistUsecase {
	uc.clock = orSystemClock(c)
	return uc
}

func (uc *WishlistUsecase) WithEvents(p EventPublisher) *WishlistUsecase {
	uc.events = orNopPublisher(p)
	return uc
}

func (uc *WishlistUsecase) WithLogger(l *logger.Logger) *WishlistUsecase {
	uc.log = logger.OrNop(l).Component("wishlist_uc")
	return uc
}

func (uc *WishlistUsecase) GetOrCreate(ctx context.Context, userID string) (*wishlistdom.Wishlist, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.EnsureExists(ctx, uid, uc.clock.Now()); err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, uid)
}

// Add saves productID. Fails with a Duplicate error when it is already saved.
func (uc *WishlistUsecase) Add(ctx context.Context, userID, productID string) (*wishlistdom.Wishlist, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, wishlistdom.ErrInvalidProductID
	}
	if _, err := uc.resolveSellable(ctx, pid); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}
	if err := uc.repo.AddItem(ctx, uid, pid, now); err != nil {
		return nil, err
	}

	publishBestEffort(ctx, uc.log, uc.events, TopicWishlistItemAdded, uid, WishlistEvent{
		Type: TopicWishlistItemAdded, UserID: uid, ProductID: pid, OccurredAt: now,
	})
	return uc.repo.Get(ctx, uid)
}

// Remove is a no-op when productID is not saved.
func (uc *WishlistUsecase) Remove(ctx context.Context, userID, productID string) (*wishlistdom.Wishlist, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, wishlistdom.ErrInvalidProductID
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}
	removed, err := uc.repo.RemoveItem(ctx, uid, pid, now)
	if err != nil {
		return nil, err
	}
	if removed {
		publishBestEffort(ctx, uc.log, uc.events, TopicWishlistItemRemoved, uid, WishlistEvent{
			Type: TopicWishlistItemRemoved, UserID: uid, ProductID: pid, OccurredAt: now,
		})
	}
	return uc.repo.Get(ctx, uid)
}

func (uc *WishlistUsecase) Clear(ctx context.Context, userID string) (*wishlistdom.Wishlist, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Clear(ctx, uid, now); err != nil {
		return nil, err
	}
	publishBestEffort(ctx, uc.log, uc.events, TopicWishlistCleared, uid, WishlistEvent{
		Type: TopicWishlistCleared, UserID: uid, OccurredAt: now,
	})
	return uc.repo.Get(ctx, uid)
}

func (uc *WishlistUsecase) Contains(ctx context.Context, userID, productID string) (bool, error) {
	w, err := uc.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}
	return w.Contains(productID), nil
}

func (uc *WishlistUsecase) Count(ctx context.Context, userID string) (int, error) {
	w, err := uc.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Count(), nil
}

// MoveToCart adds the saved product to the cart with quantity 1 (only when the
// cart has no line for it yet) and then removes it from the wishlist.
//
// The cart write and the wishlist write are separate atomic units. If the cart
// write fails the wishlist is untouched. If the wishlist write fails after the
// cart write, the returned error says so and the item stays in both.
func (uc *WishlistUsecase) MoveToCart(ctx context.Context, userID, productID string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, wishlistdom.ErrInvalidProductID
	}

	w, err := uc.GetOrCreate(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !w.Contains(pid) {
		return nil, fmt.Errorf("%w: productId=%s", wishlistdom.ErrItemNotFound, pid)
	}
	if _, err := uc.resolveSellable(ctx, pid); err != nil {
		return nil, err
	}

	c, err := uc.carts.GetOrCreate(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !c.HasProduct(pid) {
		c, err = uc.carts.AddItem(ctx, uid, pid, 1, "")
		if err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	if _, err := uc.repo.RemoveItem(ctx, uid, pid, now); err != nil {
		uc.log.Error("move to cart: wishlist remove failed after cart write", "userId", uid, "productId", pid, "err", err)
		return c, fmt.Errorf("wishlist_usecase: added to cart but not removed from wishlist: %w", err)
	}

	publishBestEffort(ctx, uc.log, uc.events, TopicWishlistItemMoved, uid, WishlistEvent{
		Type: TopicWishlistItemMoved, UserID: uid, ProductID: pid, OccurredAt: now,
	})
	return c, nil
}

func (uc *WishlistUsecase) resolveSellable(ctx context.Context, productID string) (catalogdom.Product, error) {
	res, err := uc.catalog.ResolveProduct(ctx, productID)
	if err != nil {
		return catalogdom.Product{}, fmt.Errorf("wishlist_usecase: resolve product %s: %w", productID, err)
	}
	return res.RequireSellable(productID)
}
