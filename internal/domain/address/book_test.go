package address

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/common"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fields(name string) Fields {
	return Fields{
		FullName:        name,
		MobileNumber:    "9876543210",
		Email:           name + "@example.com",
		ShippingAddress: "12 MG Road",
		PinCode:         "560001",
		City:            "Bengaluru",
		State:           "Karnataka",
	}
}

func defaults(b *Book) []string {
	var ids []string
	for _, a := range b.List() {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAdd_FirstAddressIsDefault(t *testing.T) {
	b := NewBook("u1", nil)
	a, err := b.Add("a1", fields("asha"), t0)
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, DefaultCountry, a.Country)

	b2, err := b.Add("a2", fields("ravi"), t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, b2.IsDefault)
	assert.Equal(t, []string{"a1"}, defaults(b))
}

func TestAdd_RequestedDefaultIsExclusive(t *testing.T) {
	b := NewBook("u1", nil)
	_, err := b.Add("a1", fields("asha"), t0)
	require.NoError(t, err)

	f := fields("ravi")
	f.IsDefault = true
	_, err = b.Add("a2", f, t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, []string{"a2"}, defaults(b))
	require.NoError(t, b.CheckInvariant())
}

func TestAdd_MissingFields(t *testing.T) {
	b := NewBook("u1", nil)
	f := fields("asha")
	f.PinCode = " "
	_, err := b.Add("a1", f, t0)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
	assert.Zero(t, b.Len())
}

func TestDelete_DefaultPromotesNewest(t *testing.T) {
	b := NewBook("u1", nil)
	_, err := b.Add("A", fields("a"), t0)
	require.NoError(t, err)
	_, err = b.Add("B", fields("b"), t0.Add(time.Minute))
	require.NoError(t, err)

	promoted, err := b.Delete("A", t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, "B", promoted.ID)
	assert.Equal(t, []string{"B"}, defaults(b))
}

func TestDelete_PromotesMostRecentlyCreated(t *testing.T) {
	b := NewBook("u1", []Address{
		{ID: "old", UserID: "u1", CreatedAt: t0, IsDefault: false},
		{ID: "def", UserID: "u1", CreatedAt: t0.Add(time.Minute), IsDefault: true},
		{ID: "new", UserID: "u1", CreatedAt: t0.Add(2 * time.Minute)},
	})
	promoted, err := b.Delete("def", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "new", promoted.ID)

	_, deletes := b.Changes()
	assert.Equal(t, []string{"def"}, deletes)
}

func TestDelete_NonDefaultAndMissing(t *testing.T) {
	b := NewBook("u1", nil)
	_, _ = b.Add("A", fields("a"), t0)
	_, _ = b.Add("B", fields("b"), t0.Add(time.Minute))

	promoted, err := b.Delete("B", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, promoted)

	_, err = b.Delete("B", t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	promoted, err = b.Delete("A", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Zero(t, b.Len())
	assert.NoError(t, b.CheckInvariant())
}

func TestUpdate(t *testing.T) {
	b := NewBook("u1", nil)
	_, _ = b.Add("A", fields("a"), t0)
	_, _ = b.Add("B", fields("b"), t0.Add(time.Minute))

	city := "Mysuru"
	yes := true
	got, err := b.Update("B", Patch{City: &city, IsDefault: &yes}, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Mysuru", got.City)
	assert.Equal(t, []string{"B"}, defaults(b))

	no := false
	_, err = b.Update("B", Patch{IsDefault: &no}, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, defaults(b), "clearing the flag directly is ignored")

	empty := ""
	_, err = b.Update("A", Patch{FullName: &empty}, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidFullName)
	a, _ := b.Get("A")
	assert.Equal(t, "a", a.FullName)

	_, err = b.Update("zzz", Patch{}, t0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDefault_Sequence(t *testing.T) {
	b := NewBook("u1", nil)
	for i, id := range []string{"A", "B", "C"} {
		_, err := b.Add(id, fields(id), t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	for _, id := range []string{"C", "A", "B", "B"} {
		_, err := b.SetDefault(id, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []string{id}, defaults(b))
		require.NoError(t, b.CheckInvariant())
	}
	_, err := b.SetDefault("nope", t0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Order(t *testing.T) {
	b := NewBook("u1", nil)
	_, _ = b.Add("A", fields("a"), t0)
	_, _ = b.Add("B", fields("b"), t0.Add(time.Minute))
	_, _ = b.Add("C", fields("c"), t0.Add(2*time.Minute))

	var ids []string
	for _, a := range b.List() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"A", "C", "B"}, ids)
}

func TestChanges_ClearBeforeSet(t *testing.T) {
	b := NewBook("u1", []Address{
		{ID: "A", UserID: "u1", FullName: "a", MobileNumber: "1", Email: "a@x", ShippingAddress: "s",
			PinCode: "1", City: "c", State: "s", Country: "India", IsDefault: true, CreatedAt: t0, UpdatedAt: t0},
		{ID: "B", UserID: "u1", FullName: "b", MobileNumber: "1", Email: "b@x", ShippingAddress: "s",
			PinCode: "1", City: "c", State: "s", Country: "India", CreatedAt: t0, UpdatedAt: t0},
	})
	_, err := b.SetDefault("B", t0.Add(time.Minute))
	require.NoError(t, err)

	upserts, deletes := b.Changes()
	require.Len(t, upserts, 2)
	assert.Equal(t, "A", upserts[0].ID)
	assert.False(t, upserts[0].IsDefault)
	assert.Equal(t, "B", upserts[1].ID)
	assert.True(t, upserts[1].IsDefault)
	assert.Empty(t, deletes)
}
