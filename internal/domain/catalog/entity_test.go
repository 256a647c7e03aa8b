package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain/common"
)

func TestResolution(t *testing.T) {
	_, ok := Absent().Get()
	assert.False(t, ok)

	p := Product{ID: "p1", Status: StatusActive, SellingPrice: decimal.NewFromInt(10), StockAvailable: 1}
	got, ok := Present(p).Get()
	assert.True(t, ok)
	assert.Equal(t, "p1", got.ID)
}

func TestRequireSellable(t *testing.T) {
	_, err := Absent().RequireSellable("p1")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	draft := Product{ID: "p1", Status: StatusDraft}
	_, err = Present(draft).RequireSellable("p1")
	assert.True(t, errors.Is(err, common.ErrUnavailable))

	active := Product{ID: "p1", Status: StatusActive}
	got, err := Present(active).RequireSellable("p1")
	assert.NoError(t, err)
	assert.Equal(t, active, got)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Product{}.Validate(), ErrInvalidID)
	assert.ErrorIs(t, Product{ID: "p", SellingPrice: decimal.NewFromInt(-1)}.Validate(), ErrInvalidPrice)
	assert.ErrorIs(t, Product{ID: "p", StockAvailable: -1}.Validate(), ErrInvalidStock)
	assert.True(t, IsValidStatus(StatusDraft))
	assert.False(t, IsValidStatus("deleted"))
}
