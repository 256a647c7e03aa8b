package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	"storefront/internal/domain/common"
)

type CartUsecaseSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memory.CartRepository
	catalog *memory.Catalog
	uc      *usecase.CartUsecase
}

func TestCartUsecaseSuite(t *testing.T) {
	suite.Run(t, new(CartUsecaseSuite))
}

func (s *CartUsecaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewCartRepository()
	s.catalog = memory.NewCatalog(
		activeProduct("p1", 100, 5),
		activeProduct("p2", 50, 10),
	)
	s.uc = usecase.NewCartUsecaseWithClock(s.repo, s.catalog, newStepClock())
}

func (s *CartUsecaseSuite) TestGetOrCreate_IsIdempotent() {
	c1, err := s.uc.GetOrCreate(s.ctx, "u1")
	s.Require().NoError(err)
	c2, err := s.uc.GetOrCreate(s.ctx, "u1")
	s.Require().NoError(err)

	s.Equal(c1.ID, c2.ID)
	s.Equal(c1.CreatedAt, c2.CreatedAt)
	s.Empty(c2.Lines)

	_, err = s.uc.GetOrCreate(s.ctx, " ")
	s.True(errors.Is(err, common.ErrInvalidArgument))
}

func (s *CartUsecaseSuite) TestStockScenario() {
	c, err := s.uc.AddItem(s.ctx, "u1", "p1", 3, "")
	s.Require().NoError(err)
	s.Equal(3, c.Lines[0].Quantity)

	_, err = s.uc.AddItem(s.ctx, "u1", "p1", 3, "")
	s.True(errors.Is(err, common.ErrInsufficientStock))

	c, err = s.uc.UpdateQuantity(s.ctx, "u1", "p1", "", 5)
	s.Require().NoError(err)
	s.Equal(5, c.Lines[0].Quantity)

	_, err = s.uc.UpdateQuantity(s.ctx, "u1", "p1", "", 6)
	s.True(errors.Is(err, common.ErrInsufficientStock))

	stored, err := s.repo.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(5, stored.Lines[0].Quantity)
}

func (s *CartUsecaseSuite) TestDeduplicationByKey() {
	_, err := s.uc.AddItem(s.ctx, "u1", "p2", 2, "Red")
	s.Require().NoError(err)
	c, err := s.uc.AddItem(s.ctx, "u1", "p2", 2, "Red")
	s.Require().NoError(err)

	s.Require().Len(c.Lines, 1)
	s.Equal(4, c.Lines[0].Quantity)
	s.Equal("p2__Red", c.Lines[0].ID())
}

func (s *CartUsecaseSuite) TestPriceSnapshot() {
	_, err := s.uc.AddItem(s.ctx, "u1", "p1", 1, "")
	s.Require().NoError(err)

	s.catalog.Put(activeProduct("p1", 80, 5))
	c, err := s.uc.AddItem(s.ctx, "u1", "p1", 1, "")
	s.Require().NoError(err)

	s.True(c.Lines[0].PriceAtAdd.Equal(decimal.NewFromInt(100)))
	tot, err := s.uc.Totals(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(2, tot.TotalQuantity)
	s.True(tot.TotalValue.Equal(decimal.NewFromInt(200)))
}

func (s *CartUsecaseSuite) TestAddItem_Errors() {
	_, err := s.uc.AddItem(s.ctx, "u1", "missing", 1, "")
	s.True(errors.Is(err, common.ErrNotFound))

	inactive := activeProduct("p3", 10, 10)
	inactive.Status = catalogdom.StatusInactive
	s.catalog.Put(inactive)
	_, err = s.uc.AddItem(s.ctx, "u1", "p3", 1, "")
	s.True(errors.Is(err, common.ErrUnavailable))

	_, err = s.uc.AddItem(s.ctx, "u1", "p1", 0, "")
	s.True(errors.Is(err, common.ErrInvalidArgument))

	c, err := s.uc.GetOrCreate(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(c.Lines)
}

func (s *CartUsecaseSuite) TestUpdateQuantity_Errors() {
	_, err := s.uc.UpdateQuantity(s.ctx, "u1", "p1", "", 0)
	s.True(errors.Is(err, common.ErrInvalidArgument))

	_, err = s.uc.UpdateQuantity(s.ctx, "u1", "p1", "", 1)
	s.ErrorIs(err, cartdom.ErrLineNotFound)

	_, err = s.uc.AddItem(s.ctx, "u1", "p1", 1, "Blue")
	s.Require().NoError(err)
	_, err = s.uc.UpdateQuantity(s.ctx, "u1", "p1", "Red", 2)
	s.ErrorIs(err, cartdom.ErrLineNotFound)

	s.catalog.Delete("p1")
	_, err = s.uc.UpdateQuantity(s.ctx, "u1", "p1", "Blue", 2)
	s.True(errors.Is(err, common.ErrNotFound))
}

func (s *CartUsecaseSuite) TestRemoveAndClear() {
	_, err := s.uc.AddItem(s.ctx, "u1", "p1", 1, "")
	s.Require().NoError(err)
	_, err = s.uc.AddItem(s.ctx, "u1", "p2", 1, "")
	s.Require().NoError(err)

	c, err := s.uc.RemoveItem(s.ctx, "u1", "p9", "")
	s.Require().NoError(err)
	s.Len(c.Lines, 2)

	c, err = s.uc.RemoveItem(s.ctx, "u1", "p1", "")
	s.Require().NoError(err)
	s.Len(c.Lines, 1)

	c, err = s.uc.Clear(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(c.Lines)

	stored, err := s.repo.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("u1", stored.ID)
}

func (s *CartUsecaseSuite) TestConcurrentAddsNeverExceedStock() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.uc.AddItem(s.ctx, "u1", "p1", 1, ""); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	c, err := s.repo.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(c.Lines, 1)
	s.Equal(5, c.Lines[0].Quantity)
	s.Equal(5, ok)
}

func TestCartUsecase_PublishesAfterCommit(t *testing.T) {
	ctx := context.Background()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, usecase.TopicCartItemAdded, "u1", mock.MatchedBy(func(e usecase.CartEvent) bool {
		return e.ProductID == "p1" && e.Quantity == 2
	})).Return(errors.New("broker down")).Once()

	uc := usecase.NewCartUsecaseWithClock(memory.NewCartRepository(), memory.NewCatalog(activeProduct("p1", 10, 5)), newStepClock()).
		WithEvents(pub)

	c, err := uc.AddItem(ctx, "u1", "p1", 2, "")
	require.NoError(t, err, "publish failure must not fail the mutation")
	assert.Len(t, c.Lines, 1)

	_, err = uc.AddItem(ctx, "u1", "p1", 9, "")
	require.Error(t, err)
	pub.AssertExpectations(t)
}
