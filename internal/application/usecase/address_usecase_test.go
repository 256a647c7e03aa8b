package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/usecase"
	addressdom "storefront/internal/domain/address"
	"storefront/internal/domain/common"
)

func addressFields(name string, isDefault bool) addressdom.Fields {
	return addressdom.Fields{
		FullName:        name,
		MobileNumber:    "9876543210",
		Email:           name + "@example.com",
		ShippingAddress: "221 Residency Road",
		PinCode:         "560025",
		City:            "Bengaluru",
		State:           "Karnataka",
		IsDefault:       isDefault,
	}
}

func seqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newAddressUsecase() *usecase.AddressUsecase {
	return usecase.NewAddressUsecase(memory.NewAddressRepository()).
		WithClock(newStepClock()).
		WithIDGenerator(seqIDs("addr-"))
}

func countDefaults(list []addressdom.Address) int {
	n := 0
	for _, a := range list {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddress_FirstAddressForcedDefault(t *testing.T) {
	ctx := context.Background()
	uc := newAddressUsecase()

	a, err := uc.Create(ctx, "u1", addressFields("asha", false))
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, "India", a.Country)
}

func TestAddress_DeleteDefaultPromotes(t *testing.T) {
	ctx := context.Background()
	uc := newAddressUsecase()

	a, err := uc.Create(ctx, "u1", addressFields("a", false))
	require.NoError(t, err)
	b, err := uc.Create(ctx, "u1", addressFields("b", false))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, a.ID, "u1"))

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
}

func TestAddress_OwnershipIsNotFound(t *testing.T) {
	ctx := context.Background()
	uc := newAddressUsecase()

	a, err := uc.Create(ctx, "u1", addressFields("a", false))
	require.NoError(t, err)

	_, err = uc.Get(ctx, a.ID, "u2")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	_, err = uc.SetDefault(ctx, a.ID, "u2")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, errors.Is(uc.Delete(ctx, a.ID, "u2"), common.ErrNotFound))

	name := "mallory"
	_, err = uc.Update(ctx, a.ID, "u2", addressdom.Patch{FullName: &name})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestAddress_CreateValidation(t *testing.T) {
	ctx := context.Background()
	uc := newAddressUsecase()

	f := addressFields("a", false)
	f.City = ""
	_, err := uc.Create(ctx, "u1", f)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddress_ExclusivityAcrossRandomSequences(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		uc := newAddressUsecase()
		var ids []string
		for step := 0; step < 30; step++ {
			switch op := rng.Intn(4); {
			case op == 0 || len(ids) == 0:
				a, err := uc.Create(ctx, "u1", addressFields("x", rng.Intn(2) == 0))
				require.NoError(t, err)
				ids = append(ids, a.ID)
			case op == 1:
				_, err := uc.SetDefault(ctx, ids[rng.Intn(len(ids))], "u1")
				require.NoError(t, err)
			case op == 2:
				yes := rng.Intn(2) == 0
				_, err := uc.Update(ctx, ids[rng.Intn(len(ids))], "u1", addressdom.Patch{IsDefault: &yes})
				require.NoError(t, err)
			default:
				i := rng.Intn(len(ids))
				require.NoError(t, uc.Delete(ctx, ids[i], "u1"))
				ids = append(ids[:i], ids[i+1:]...)
			}

			list, err := uc.List(ctx, "u1")
			require.NoError(t, err)
			if len(list) > 0 {
				require.Equal(t, 1, countDefaults(list), "round %d step %d", round, step)
				require.True(t, list[0].IsDefault)
			}
		}
	}
}

func TestAddress_ConcurrentCreatesKeepOneDefault(t *testing.T) {
	ctx := context.Background()
	uc := newAddressUsecase()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Create(ctx, "u1", addressFields(fmt.Sprintf("n%d", i), i%2 == 0))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 16)
	assert.Equal(t, 1, countDefaults(list))
}
