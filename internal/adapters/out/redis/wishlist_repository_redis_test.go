package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	wishlistdom "storefront/internal/domain/wishlist"
)

// Runs against a real Redis; set REDIS_ADDR (and REDIS_PASSWORD if needed).
type WishlistRedisSuite struct {
	suite.Suite
	client *goredis.Client
	repo   *WishlistRepositoryRedis
	ctx    context.Context
}

func TestWishlistRedisSuite(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set")
	}
	suite.Run(t, new(WishlistRedisSuite))
}

func (s *WishlistRedisSuite) SetupSuite() {
	s.client = goredis.NewClient(&goredis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	s.ctx = context.Background()
	require.NoError(s.T(), s.client.Ping(s.ctx).Err(), "redis ping")
	s.repo = NewWishlistRepositoryRedis(s.client)
	s.repo.Prefix = "test:wishlist:"
}

func (s *WishlistRedisSuite) TearDownSuite() {
	_ = s.client.Close()
}

func (s *WishlistRedisSuite) SetupTest() {
	keys, err := s.client.Keys(s.ctx, "test:wishlist:*").Result()
	s.Require().NoError(err)
	if len(keys) > 0 {
		s.Require().NoError(s.client.Del(s.ctx, keys...).Err())
	}
}

func (s *WishlistRedisSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, "u1")
	s.ErrorIs(err, wishlistdom.ErrWishlistNotFound)
}

func (s *WishlistRedisSuite) TestAddRemoveClear() {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.EnsureExists(s.ctx, "u1", t0))
	s.Require().NoError(s.repo.EnsureExists(s.ctx, "u1", t0.Add(time.Hour)))

	s.Require().NoError(s.repo.AddItem(s.ctx, "u1", "p2", t0.Add(2*time.Minute)))
	s.Require().NoError(s.repo.AddItem(s.ctx, "u1", "p1", t0.Add(time.Minute)))
	s.ErrorIs(s.repo.AddItem(s.ctx, "u1", "p1", t0.Add(3*time.Minute)), wishlistdom.ErrAlreadyInList)

	w, err := s.repo.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(t0, w.CreatedAt)
	s.Require().Len(w.Items, 2)
	s.Equal("p1", w.Items[0].ProductID)
	s.Equal("p2", w.Items[1].ProductID)

	removed, err := s.repo.RemoveItem(s.ctx, "u1", "p1", t0.Add(4*time.Minute))
	s.Require().NoError(err)
	s.True(removed)
	removed, err = s.repo.RemoveItem(s.ctx, "u1", "p1", t0.Add(5*time.Minute))
	s.Require().NoError(err)
	s.False(removed)

	s.Require().NoError(s.repo.Clear(s.ctx, "u1", t0.Add(6*time.Minute)))
	w, err = s.repo.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(w.Items)
	s.Equal(t0.Add(6*time.Minute), w.UpdatedAt)
}

func (s *WishlistRedisSuite) TestConcurrentAddSameProduct() {
	now := time.Now().UTC()
	s.Require().NoError(s.repo.EnsureExists(s.ctx, "u2", now))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.repo.AddItem(s.ctx, "u2", "p1", now)
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			s.ErrorIs(err, wishlistdom.ErrAlreadyInList)
		}
	}
	s.Equal(1, ok)
}
