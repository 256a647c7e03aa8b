package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts(t *testing.T) {
	ps, err := ReadProducts(strings.NewReader(`[
		{"id":" p1 ","name":"Kurta","status":"ACTIVE","sellingPrice":"129.50","stockAvailable":4},
		{"id":"p2","name":"Scarf","status":"inactive","sellingPrice":"10","stockAvailable":0}
	]`))
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, "p1", ps[0].ID)
	assert.Equal(t, StatusActive, ps[0].Status)
	assert.True(t, ps[0].SellingPrice.Equal(decimal.RequireFromString("129.5")))
	assert.Equal(t, 4, ps[0].StockAvailable)
	assert.False(t, ps[1].IsActive())
}

func TestReadProducts_Rejects(t *testing.T) {
	_, err := ReadProducts(strings.NewReader(`{"id":"p1"}`))
	assert.Error(t, err)

	_, err = ReadProducts(strings.NewReader(`[{"id":"","status":"active","sellingPrice":"1"}]`))
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = ReadProducts(strings.NewReader(`[{"id":"p1","status":"active","sellingPrice":"1","stockAvailable":-1}]`))
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestReadProductsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p1","status":"active","sellingPrice":"5","stockAvailable":1}]`), 0o600))

	ps, err := ReadProductsFile(path)
	require.NoError(t, err)
	assert.Len(t, ps, 1)

	_, err = ReadProductsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
