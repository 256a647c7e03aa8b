package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/common"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func product(id string, price int64, stock int) catalog.Product {
	return catalog.Product{
		ID:             id,
		Name:           "Product " + id,
		Status:         catalog.StatusActive,
		SellingPrice:   decimal.NewFromInt(price),
		StockAvailable: stock,
	}
}

func newCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewCart("user-1", t0)
	require.NoError(t, err)
	return c
}

func TestNewCart(t *testing.T) {
	c := newCart(t)
	assert.Equal(t, "user-1", c.ID)
	assert.Empty(t, c.Lines)
	assert.Equal(t, t0.Add(DefaultCartTTL), c.ExpiresAt)

	_, err := NewCart("  ", t0)
	assert.ErrorIs(t, err, ErrInvalidCart)
}

func TestLineKeyID(t *testing.T) {
	assert.Equal(t, "p1", NewLineKey("p1", "").ID())
	assert.Equal(t, "p1__Red", NewLineKey(" p1 ", " Red ").ID())
}

func TestAdd_StockCeiling(t *testing.T) {
	c := newCart(t)
	p := product("p1", 100, 5)

	require.NoError(t, c.Add(p, 3, "", t0))

	err := c.Add(p, 3, "", t0.Add(time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInsufficientStock))
	assert.Equal(t, 3, c.Lines[0].Quantity, "failed add must not change the line")

	require.NoError(t, c.Add(p, 2, "", t0.Add(2*time.Minute)))
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestAdd_MergesSameKey(t *testing.T) {
	c := newCart(t)
	p := product("p1", 100, 10)

	require.NoError(t, c.Add(p, 2, "Red", t0))
	require.NoError(t, c.Add(p, 2, "Red", t0.Add(time.Second)))
	require.NoError(t, c.Add(p, 1, "Blue", t0.Add(2*time.Second)))

	require.Len(t, c.Lines, 2)
	l, ok := c.Line(NewLineKey("p1", "Red"))
	require.True(t, ok)
	assert.Equal(t, 4, l.Quantity)
	assert.Equal(t, "p1__Blue", c.Lines[1].ID())
}

func TestAdd_PriceSnapshotIsKept(t *testing.T) {
	c := newCart(t)
	p := product("p1", 100, 10)
	require.NoError(t, c.Add(p, 1, "", t0))

	p.SellingPrice = decimal.NewFromInt(80)
	require.NoError(t, c.Add(p, 1, "", t0.Add(time.Minute)))

	require.Len(t, c.Lines, 1)
	assert.True(t, c.Lines[0].PriceAtAdd.Equal(decimal.NewFromInt(100)))
	assert.True(t, c.Totals().TotalValue.Equal(decimal.NewFromInt(200)))
}

func TestAdd_Rejects(t *testing.T) {
	c := newCart(t)

	assert.ErrorIs(t, c.Add(product("p1", 10, 5), 0, "", t0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(product("", 10, 5), 1, "", t0), ErrInvalidProductID)

	inactive := product("p2", 10, 5)
	inactive.Status = catalog.StatusInactive
	err := c.Add(inactive, 1, "", t0)
	assert.True(t, errors.Is(err, common.ErrUnavailable))
	assert.Empty(t, c.Lines)
}

func TestSetQuantity(t *testing.T) {
	c := newCart(t)
	p := product("p1", 100, 5)
	require.NoError(t, c.Add(p, 1, "", t0))
	key := NewLineKey("p1", "")

	require.NoError(t, c.SetQuantity(key, 5, p, t0.Add(time.Minute)))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.ErrorIs(t, c.SetQuantity(key, 6, p, t0), ErrInsufficientStock)
	assert.ErrorIs(t, c.SetQuantity(key, 0, p, t0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(NewLineKey("p1", "Red"), 1, p, t0), ErrLineNotFound)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(product("p1", 10, 5), 1, "", t0))
	require.NoError(t, c.Add(product("p2", 20, 5), 2, "", t0))

	assert.False(t, c.Remove(NewLineKey("p3", ""), t0))
	assert.True(t, c.Remove(NewLineKey("p1", ""), t0.Add(time.Hour)))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, t0.Add(time.Hour).Add(DefaultCartTTL), c.ExpiresAt)

	c.Clear(t0.Add(2 * time.Hour))
	assert.Empty(t, c.Lines)
	assert.Equal(t, "user-1", c.ID)
}

func TestTotalsAndLookups(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(product("p1", 150, 5), 2, "Red", t0))
	require.NoError(t, c.Add(product("p2", 25, 5), 4, "", t0))

	tot := c.Totals()
	assert.Equal(t, 6, tot.TotalQuantity)
	assert.True(t, tot.TotalValue.Equal(decimal.NewFromInt(400)))

	_, ok := c.LineByID("p1__Red")
	assert.True(t, ok)
	_, ok = c.LineByID("p1")
	assert.False(t, ok)
	assert.True(t, c.HasProduct("p1"))
	assert.False(t, c.HasProduct("p9"))
}

func TestLineKeyID_DistinctKeysNeverCollide(t *testing.T) {
	keys := []LineKey{
		NewLineKey("a", "b"),
		NewLineKey("a__b", ""),
		NewLineKey("a_", "b"),
		NewLineKey("a", "_b"),
		NewLineKey("a%5F", ""),
		NewLineKey("a_", ""),
	}
	seen := map[string]LineKey{}
	for _, k := range keys {
		id := k.ID()
		prev, dup := seen[id]
		assert.False(t, dup, "%+v and %+v share id %q", prev, k, id)
		seen[id] = k
	}
	assert.Equal(t, "a__b", NewLineKey("a", "b").ID())
	assert.Equal(t, "a%5F%5Fb", NewLineKey("a__b", "").ID())
}

func TestLineByID_SeparatorInProductID(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(product("a", 100, 5), 1, "b", t0))
	require.NoError(t, c.Add(product("a__b", 7, 5), 1, "", t0))
	require.Len(t, c.Lines, 2)

	l, ok := c.LineByID(c.Lines[0].ID())
	require.True(t, ok)
	assert.Equal(t, "a", l.ProductID)
	assert.Equal(t, "b", l.SelectedColor)

	l, ok = c.LineByID(c.Lines[1].ID())
	require.True(t, ok)
	assert.Equal(t, "a__b", l.ProductID)
	assert.True(t, l.PriceAtAdd.Equal(decimal.NewFromInt(7)))
}

func TestValidate_DuplicateLines(t *testing.T) {
	c := newCart(t)
	c.Lines = []Line{
		{ProductID: "p1", Quantity: 1, PriceAtAdd: decimal.NewFromInt(1)},
		{ProductID: "p1", Quantity: 2, PriceAtAdd: decimal.NewFromInt(1)},
	}
	assert.ErrorIs(t, c.Validate(), ErrInvalidCart)
}

func TestClone_IsDeep(t *testing.T) {
	c := newCart(t)
	require.NoError(t, c.Add(product("p1", 10, 5), 1, "", t0))
	cp := c.Clone()
	cp.Lines[0].Quantity = 4
	assert.Equal(t, 1, c.Lines[0].Quantity)
}
