// internal/application/usecase/events.go
package usecase

import (
	"context"
	"time"

	"storefront/internal/platform/logger"
)

// EventPublisher is an outbound port for domain events.
// key is the partitioning key (owner user id).
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Topic names (the publisher adapter prepends its configured prefix).
const (
	TopicCartItemAdded       = "cart.item.added"
	TopicCartItemUpdated     = "cart.item.updated"
	TopicCartItemRemoved     = "cart.item.removed"
	TopicCartCleared         = "cart.cleared"
	TopicWishlistItemAdded   = "wishlist.item.added"
	TopicWishlistItemRemoved = "wishlist.item.removed"
	TopicWishlistCleared     = "wishlist.cleared"
	TopicWishlistItemMoved   = "wishlist.item.moved"
)

// CartEvent describes one committed cart mutation.
type CartEvent struct {
	Type          string    `json:"type"`
	UserID        string    `json:"userId"`
	ProductID     string    `json:"productId,omitempty"`
	SelectedColor string    `json:"selectedColor,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// WishlistEvent describes one committed wishlist mutation.
type WishlistEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) error { return nil }

func orNopPublisher(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// publishBestEffort runs after the write has committed; a failure is logged only.
func publishBestEffort(ctx context.Context, log *logger.Logger, pub EventPublisher, topic, key string, event any) {
	if err := pub.Publish(ctx, topic, key, event); err != nil {
		log.Warn("event publish failed", "topic", topic, "key", key, "err", err)
	}
}
