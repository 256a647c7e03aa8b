package firestore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdom "storefront/internal/domain/catalog"
)

func TestAsDecimal(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"129.50", "129.5"},
		{" 7 ", "7"},
		{"", "0"},
		{nil, "0"},
		{int64(12), "12"},
		{3.25, "3.25"},
	}
	for _, tc := range cases {
		got, err := asDecimal(tc.in)
		require.NoError(t, err, "%v", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "%v -> %s", tc.in, got)
	}

	_, err := asDecimal("ten")
	assert.Error(t, err)
	_, err = asDecimal(true)
	assert.Error(t, err)
}

func TestAsIntBoolTime(t *testing.T) {
	assert.Equal(t, 4, asInt(int64(4)))
	assert.Equal(t, 4, asInt(4.0))
	assert.Equal(t, 4, asInt(" 4 "))
	assert.Equal(t, 0, asInt(nil))

	assert.True(t, asBool(true))
	assert.True(t, asBool("true"))
	assert.False(t, asBool(nil))

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	got, ok := asTime(ts)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	_, ok = asTime("2026-03-01")
	assert.False(t, ok)
}

func TestProductFromData(t *testing.T) {
	p, err := productFromData("p1", map[string]any{
		"name":           "Kurta",
		"image":          "gs://shop/p1.jpg",
		"status":         "ACTIVE",
		"sellingPrice":   "120.00",
		"stockAvailable": int64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, catalogdom.StatusActive, p.Status)
	assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 3, p.StockAvailable)

	back := ProductToDocData(p)
	assert.Equal(t, "120", back["sellingPrice"])

	_, err = productFromData("p2", map[string]any{"sellingPrice": "-1"})
	assert.ErrorIs(t, err, catalogdom.ErrInvalidPrice)
	_, err = productFromData("p3", map[string]any{"sellingPrice": "x"})
	assert.Error(t, err)
}
