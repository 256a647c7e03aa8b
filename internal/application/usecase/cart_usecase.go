// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"fmt"
	"time"

	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	"storefront/internal/platform/logger"
)

// CartUsecase coordinates cart operations.
//
// Every mutation runs EnsureExists first and then a single atomic
// repository Update in which the product is re-resolved, so stock and
// status are checked against the catalog at call time.
type CartUsecase struct {
	repo    cartdom.Repository
	catalog catalogdom.Resolver
	events  EventPublisher
	clock   Clock
	ttl     time.Duration
	log     *logger.Logger
}

func NewCartUsecase(repo cartdom.Repository, catalog catalogdom.Resolver) *CartUsecase {
	return &CartUsecase{
		repo:    repo,
		catalog: catalog,
		events:  nopPublisher{},
		clock:   systemClock{},
		ttl:     cartdom.DefaultCartTTL,
		log:     logger.Nop(),
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, catalog catalogdom.Resolver, clock Clock) *CartUsecase {
	uc := NewCartUsecase(repo, catalog)
	uc.clock = orSystemClock(clock)
	return uc
}

func (uc *CartUsecase) WithEvents(p EventPublisher) *CartUsecase {
	uc.events = orNopPublisher(p)
	return uc
}

func (uc *CartUsecase) WithLogger(l *logger.Logger) *CartUsecase {
	uc.log = logger.OrNop(l).Component("cart_uc")
	return uc
}

// WithTTL overrides the expiresAt window. Non-positive keeps the default.
func (uc *CartUsecase) WithTTL(ttl time.Duration) *CartUsecase {
	if ttl > 0 {
		uc.ttl = ttl
	}
	return uc
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.EnsureExists(ctx, uid, uc.clock.Now()); err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, uid)
}

// Find returns the stored cart without creating one (ErrCartNotFound when absent).
func (uc *CartUsecase) Find(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, uid)
}

// AddItem adds quantity units of productID with an optional color.
func (uc *CartUsecase) AddItem(ctx context.Context, userID, productID string, quantity int, selectedColor string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	key := cartdom.NewLineKey(productID, selectedColor)
	if key.ProductID == "" {
		return nil, cartdom.ErrInvalidProductID
	}
	if quantity < 1 {
		return nil, cartdom.ErrInvalidQuantity
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}

	c, err := uc.repo.Update(ctx, uid, func(c *cartdom.Cart) error {
		p, err := uc.resolveSellable(ctx, key.ProductID)
		if err != nil {
			return err
		}
		if err := c.Add(p, quantity, key.SelectedColor, now); err != nil {
			return err
		}
		c.RefreshExpiry(now, uc.ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug("item added", "userId", uid, "lineId", key.ID(), "quantity", quantity)
	publishBestEffort(ctx, uc.log, uc.events, TopicCartItemAdded, uid, CartEvent{
		Type:          TopicCartItemAdded,
		UserID:        uid,
		ProductID:     key.ProductID,
		SelectedColor: key.SelectedColor,
		Quantity:      quantity,
		OccurredAt:    now,
	})
	return c, nil
}

// UpdateQuantity sets an existing line's quantity. The stock check uses the
// catalog value read inside the same atomic update.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, userID, productID, selectedColor string, newQuantity int) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	key := cartdom.NewLineKey(productID, selectedColor)
	if key.ProductID == "" {
		return nil, cartdom.ErrInvalidProductID
	}
	if newQuantity < 1 {
		return nil, cartdom.ErrInvalidQuantity
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}

	c, err := uc.repo.Update(ctx, uid, func(c *cartdom.Cart) error {
		if _, ok := c.Line(key); !ok {
			return fmt.Errorf("%w: lineId=%s", cartdom.ErrLineNotFound, key.ID())
		}
		p, err := uc.resolveSellable(ctx, key.ProductID)
		if err != nil {
			return err
		}
		if err := c.SetQuantity(key, newQuantity, p, now); err != nil {
			return err
		}
		c.RefreshExpiry(now, uc.ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishBestEffort(ctx, uc.log, uc.events, TopicCartItemUpdated, uid, CartEvent{
		Type:          TopicCartItemUpdated,
		UserID:        uid,
		ProductID:     key.ProductID,
		SelectedColor: key.SelectedColor,
		Quantity:      newQuantity,
		OccurredAt:    now,
	})
	return c, nil
}

// RemoveItem drops a line. Removing a missing line is not an error.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, productID, selectedColor string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	key := cartdom.NewLineKey(productID, selectedColor)
	if key.ProductID == "" {
		return nil, cartdom.ErrInvalidProductID
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}

	removed := false
	c, err := uc.repo.Update(ctx, uid, func(c *cartdom.Cart) error {
		removed = c.Remove(key, now)
		if removed {
			c.RefreshExpiry(now, uc.ttl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed {
		publishBestEffort(ctx, uc.log, uc.events, TopicCartItemRemoved, uid, CartEvent{
			Type:          TopicCartItemRemoved,
			UserID:        uid,
			ProductID:     key.ProductID,
			SelectedColor: key.SelectedColor,
			OccurredAt:    now,
		})
	}
	return c, nil
}

// Clear empties every line; the cart document stays.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if err := uc.repo.EnsureExists(ctx, uid, now); err != nil {
		return nil, err
	}

	c, err := uc.repo.Update(ctx, uid, func(c *cartdom.Cart) error {
		c.Clear(now)
		c.RefreshExpiry(now, uc.ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishBestEffort(ctx, uc.log, uc.events, TopicCartCleared, uid, CartEvent{
		Type:       TopicCartCleared,
		UserID:     uid,
		OccurredAt: now,
	})
	return c, nil
}

// Totals is computed on read from price snapshots.
func (uc *CartUsecase) Totals(ctx context.Context, userID string) (cartdom.Totals, error) {
	c, err := uc.GetOrCreate(ctx, userID)
	if err != nil {
		return cartdom.Totals{}, err
	}
	return c.Totals(), nil
}

func (uc *CartUsecase) resolveSellable(ctx context.Context, productID string) (catalogdom.Product, error) {
	res, err := uc.catalog.ResolveProduct(ctx, productID)
	if err != nil {
		return catalogdom.Product{}, fmt.Errorf("cart_usecase: resolve product %s: %w", productID, err)
	}
	return res.RequireSellable(productID)
}
