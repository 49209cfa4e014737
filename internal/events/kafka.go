package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// DefaultPublishTimeout bounds a single Publish, retries included, so a slow
// or unreachable broker cannot hold up the request that emitted the event.
const DefaultPublishTimeout = 2 * time.Second

// MessageWriter is the subset of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
	closed  atomic.Bool
	logger  zerolog.Logger
}

// NewKafkaPublisher creates a synchronous publisher writing to topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           DefaultPublishTimeout,
		AllowAutoTopicCreation: true,
	}

	return NewKafkaPublisherWithWriter(writer, topic, logger), nil
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(writer MessageWriter, topic string, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer:  writer,
		topic:   topic,
		timeout: DefaultPublishTimeout,
		logger:  logger.With().Str("publisher", "kafka").Str("topic", topic).Logger(),
	}
}

// Publish writes the event keyed by order ID so events of one order stay on
// one partition. The write runs detached from ctx cancellation, since the
// change it reports is already committed, but never longer than the publish
// timeout.
func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if event.OrderID == 0 {
		msg.Key = []byte("user-" + strconv.FormatInt(event.UserID, 10))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.Debug().
		Str("type", string(event.Type)).
		Int64("order_id", event.OrderID).
		Msg("event published")
	return nil
}

// Close flushes pending writes. Calling it twice is a no-op.
func (p *kafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
