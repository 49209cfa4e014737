// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"time"
)

// Type names an order lifecycle event.
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	OrderDeleted       Type = "order.deleted"
	UserDeleted        Type = "user.deleted"
)

// Event is one lifecycle notification. Payload is marshalled as JSON.
type Event struct {
	Type       Type      `json:"type"`
	OrderID    int64     `json:"orderId,omitempty"`
	UserID     int64     `json:"userId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher sends events to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
