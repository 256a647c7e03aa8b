// internal/adapters/out/kafka/event_publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"storefront/internal/platform/logger"
)

var ErrPublisherClosed = errors.New("kafka: publisher closed")

// messageWriter is the part of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// EventPublisher implements usecase.EventPublisher. Each event is JSON encoded
// and written to "<prefix><topic>" keyed by the owner id, so one user's events
// stay ordered within a partition.
type EventPublisher struct {
	writer messageWriter
	prefix string
	closed atomic.Bool
}

func NewEventPublisher(brokers []string, topicPrefix string, log *logger.Logger) *EventPublisher {
	l := logger.OrNop(log).Component("kafka")
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			l.Error(fmt.Sprintf(msg, args...))
		}),
	}
	return newEventPublisher(w, topicPrefix)
}

func newEventPublisher(w messageWriter, prefix string) *EventPublisher {
	return &EventPublisher{writer: w, prefix: strings.TrimSpace(prefix)}
}

func (p *EventPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("kafka: topic is empty")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", topic, err)
	}

	msg := kafkago.Message{
		Topic: p.prefix + topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(topic)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", msg.Topic, err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
