// internal/application/query/mall/cart_query.go
package mall

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"storefront/internal/application/query/mall/dto"
	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	"storefront/internal/platform/logger"
)

// CartSource yields the stored cart (CartUsecase satisfies it).
type CartSource interface {
	GetOrCreate(ctx context.Context, userID string) (*cartdom.Cart, error)
}

// ImageURLResolver turns a catalog image object into a URL the client can load.
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, object string) (string, error)
}

// defaultResolveLimit caps concurrent catalog lookups per request.
const defaultResolveLimit = 8

// CartQuery is the read model behind the cart screen: stored lines joined with
// current catalog data. It never writes the cart.
type CartQuery struct {
	carts   CartSource
	catalog catalogdom.Resolver
	images  ImageURLResolver
	limit   int
	log     *logger.Logger
}

func NewCartQuery(carts CartSource, catalog catalogdom.Resolver) *CartQuery {
	return &CartQuery{
		carts:   carts,
		catalog: catalog,
		limit:   defaultResolveLimit,
		log:     logger.Nop(),
	}
}

// WithImageResolver is optional; without it ImageURL carries the raw object value.
func (q *CartQuery) WithImageResolver(r ImageURLResolver) *CartQuery {
	q.images = r
	return q
}

func (q *CartQuery) WithLogger(l *logger.Logger) *CartQuery {
	q.log = logger.OrNop(l).Component("cart_query")
	return q
}

// ListForDisplay returns the user's cart for display.
//
// Lines pointing at products that no longer resolve, or are not active, are
// filtered from the result only; the stored cart keeps them.
func (q *CartQuery) ListForDisplay(ctx context.Context, userID string) (dto.CartDTO, error) {
	if q == nil || q.carts == nil || q.catalog == nil {
		return dto.CartDTO{}, errors.New("cart_query: not configured")
	}

	c, err := q.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return dto.CartDTO{}, err
	}

	products, err := q.resolveAll(ctx, c.Lines)
	if err != nil {
		return dto.CartDTO{}, err
	}

	totals := c.Totals()
	out := dto.CartDTO{
		UserID:        c.ID,
		Lines:         make([]dto.CartLineDTO, 0, len(c.Lines)),
		TotalQuantity: totals.TotalQuantity,
		TotalValue:    totals.TotalValue,
		UpdatedAt:     c.UpdatedAt,
		ExpiresAt:     c.ExpiresAt,
	}

	for _, l := range c.Lines {
		p, ok := products[l.ProductID].Get()
		if !ok || !p.IsActive() {
			out.HiddenLineCount++
			continue
		}
		out.Lines = append(out.Lines, dto.CartLineDTO{
			LineID:         l.ID(),
			ProductID:      l.ProductID,
			SelectedColor:  l.SelectedColor,
			Quantity:       l.Quantity,
			Name:           p.Name,
			ImageURL:       q.imageURL(ctx, p),
			Status:         string(p.Status),
			CurrentPrice:   p.SellingPrice,
			StockAvailable: p.StockAvailable,
			PriceAtAdd:     l.PriceAtAdd,
			PriceChanged:   !l.PriceAtAdd.Equal(p.SellingPrice),
			LineTotal:      l.Subtotal(),
		})
	}

	if out.HiddenLineCount > 0 {
		q.log.Debug("cart lines hidden", "userId", c.ID, "hidden", out.HiddenLineCount)
	}
	return out, nil
}

// resolveAll looks every distinct product up once, concurrently.
func (q *CartQuery) resolveAll(ctx context.Context, lines []cartdom.Line) (map[string]catalogdom.Resolution, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}

	var mu sync.Mutex
	out := make(map[string]catalogdom.Resolution, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if q.limit > 0 {
		g.SetLimit(q.limit)
	}
	for _, id := range ids {
		g.Go(func() error {
			res, err := q.catalog.ResolveProduct(gctx, id)
			if err != nil {
				return fmt.Errorf("cart_query: resolve product %s: %w", id, err)
			}
			mu.Lock()
			out[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *CartQuery) imageURL(ctx context.Context, p catalogdom.Product) string {
	if q.images == nil || p.ImageObject == "" {
		return p.ImageObject
	}
	u, err := q.images.ResolveImageURL(ctx, p.ImageObject)
	if err != nil {
		q.log.Warn("image url resolve failed", "productId", p.ID, "err", err)
		return ""
	}
	return u
}
