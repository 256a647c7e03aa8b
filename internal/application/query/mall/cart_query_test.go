package mall_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/query/mall"
	"storefront/internal/application/usecase"
	catalogdom "storefront/internal/domain/catalog"
)

func product(id string, price int64, status catalogdom.Status) catalogdom.Product {
	return catalogdom.Product{
		ID:             id,
		Name:           "Product " + id,
		ImageObject:    "products/" + id + ".png",
		Status:         status,
		SellingPrice:   decimal.NewFromInt(price),
		StockAvailable: 10,
	}
}

type prefixImages struct{}

func (prefixImages) ResolveImageURL(_ context.Context, object string) (string, error) {
	return "https://cdn.example.com/" + object, nil
}

type failingCatalog struct{}

func (failingCatalog) ResolveProduct(context.Context, string) (catalogdom.Resolution, error) {
	return catalogdom.Absent(), errors.New("catalog down")
}

func clock() usecase.Clock {
	t := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return usecase.ClockFunc(func() time.Time {
		t = t.Add(time.Second)
		return t
	})
}

func TestListForDisplay(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewCatalog(
		product("p1", 100, catalogdom.StatusActive),
		product("p2", 30, catalogdom.StatusActive),
		product("p3", 10, catalogdom.StatusActive),
	)
	repo := memory.NewCartRepository()
	carts := usecase.NewCartUsecaseWithClock(repo, cat, clock())

	_, err := carts.AddItem(ctx, "u1", "p1", 1, "Red")
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "u1", "p2", 2, "")
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "u1", "p3", 1, "")
	require.NoError(t, err)

	cat.Put(product("p1", 80, catalogdom.StatusActive))
	cat.Put(product("p2", 30, catalogdom.StatusInactive))
	cat.Delete("p3")

	q := mall.NewCartQuery(carts, cat).WithImageResolver(prefixImages{})
	view, err := q.ListForDisplay(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	l := view.Lines[0]
	assert.Equal(t, "p1__Red", l.LineID)
	assert.True(t, l.PriceAtAdd.Equal(decimal.NewFromInt(100)))
	assert.True(t, l.CurrentPrice.Equal(decimal.NewFromInt(80)))
	assert.True(t, l.PriceChanged)
	assert.Equal(t, "https://cdn.example.com/products/p1.png", l.ImageURL)
	assert.Equal(t, 2, view.HiddenLineCount)
	assert.Equal(t, 4, view.TotalQuantity)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 3, "hidden lines stay in the stored cart")
	assert.True(t, stored.Lines[0].PriceAtAdd.Equal(decimal.NewFromInt(100)))

	cat.Put(product("p2", 30, catalogdom.StatusActive))
	view, err = q.ListForDisplay(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestListForDisplay_CatalogError(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewCatalog(product("p1", 100, catalogdom.StatusActive))
	carts := usecase.NewCartUsecaseWithClock(memory.NewCartRepository(), cat, clock())
	_, err := carts.AddItem(ctx, "u1", "p1", 1, "")
	require.NoError(t, err)

	_, err = mall.NewCartQuery(carts, failingCatalog{}).ListForDisplay(ctx, "u1")
	assert.ErrorContains(t, err, "catalog down")
}

func TestListForDisplay_EmptyCart(t *testing.T) {
	cat := memory.NewCatalog()
	carts := usecase.NewCartUsecaseWithClock(memory.NewCartRepository(), cat, clock())
	view, err := mall.NewCartQuery(carts, cat).ListForDisplay(context.Background(), "u9")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.TotalValue.IsZero())
}
