package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

// stalledWriter blocks until the write context ends, like a writer retrying
// against an unreachable broker.
type stalledWriter struct{}

func (stalledWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(writer, "atelier.orders", zerolog.Nop())

	err := pub.Publish(context.Background(), Event{
		Type:    OrderStatusChanged,
		OrderID: 42,
		Payload: map[string]string{"status": "completed"},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "order.status_changed", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order.status_changed", decoded["type"])
	assert.EqualValues(t, 42, decoded["orderId"])
	assert.NotEmpty(t, decoded["occurredAt"])
}

func TestKafkaPublisher_UserEventKey(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(writer, "t", zerolog.Nop())

	require.NoError(t, pub.Publish(context.Background(), Event{Type: UserDeleted, UserID: 7}))
	assert.Equal(t, "user-7", string(writer.messages[0].Key))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	pub := NewKafkaPublisherWithWriter(writer, "t", zerolog.Nop())

	err := pub.Publish(context.Background(), Event{Type: OrderCreated, OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaPublisher_PublishTimeout(t *testing.T) {
	pub := NewKafkaPublisherWithWriter(stalledWriter{}, "t", zerolog.Nop())
	pub.(*kafkaPublisher).timeout = 20 * time.Millisecond

	start := time.Now()
	err := pub.Publish(context.Background(), Event{Type: OrderCreated, OrderID: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestKafkaPublisher_PublishAfterRequestCanceled(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(writer, "t", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, pub.Publish(ctx, Event{Type: OrderCreated, OrderID: 3}))
	assert.Len(t, writer.messages, 1)
}

func TestKafkaPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewKafkaPublisherWithWriter(writer, "t", zerolog.Nop())

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())
	assert.Equal(t, 1, writer.closed)

	err := pub.Publish(context.Background(), Event{Type: OrderCreated, OrderID: 1})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestNewKafkaPublisher_RequiresConfig(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t", zerolog.Nop())
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", zerolog.Nop())
	assert.Error(t, err)

	pub, err := NewKafkaPublisher([]string{"localhost:9092"}, "t", zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, pub.Close())
}

func TestNopPublisher(t *testing.T) {
	pub := NewNopPublisher()
	assert.NoError(t, pub.Publish(context.Background(), Event{Type: OrderCreated}))
	assert.NoError(t, pub.Close())
}
