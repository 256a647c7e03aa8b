package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	catalogdom "storefront/internal/domain/catalog"
)

// stepClock advances one second per call so timestamps stay ordered.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func activeProduct(id string, price int64, stock int) catalogdom.Product {
	return catalogdom.Product{
		ID:             id,
		Name:           "Product " + id,
		Status:         catalogdom.StatusActive,
		SellingPrice:   decimal.NewFromInt(price),
		StockAvailable: stock,
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}
