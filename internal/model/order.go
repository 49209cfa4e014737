package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
	StatusRejected  OrderStatus = "rejected"
)

// NoOrdersStatus is reported as the last order status of a user without orders.
const NoOrdersStatus = "no orders"

// AllStatuses returns every valid order status in display order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusCompleted, StatusCancelled, StatusRejected}
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// ParseStatus converts raw into a known status.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// CanTransition reports whether an order may move from one status to another.
// Every valid status is reachable from every other one, including itself.
func CanTransition(from, to OrderStatus) bool {
	return from.Valid() && to.Valid()
}

// Order represents a customer order.
type Order struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"userId" db:"user_id"`
	TotalAmount int64           `json:"totalAmount" db:"total_amount"`
	Status      OrderStatus     `json:"status" db:"status"`
	Shipping    json.RawMessage `json:"shipping" db:"shipping"`
	Notes       *string         `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	Items       []OrderItem     `json:"items"`
	User        *User           `json:"user,omitempty"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        int64             `json:"id" db:"id"`
	OrderID   int64             `json:"orderId" db:"order_id"`
	ProductID string            `json:"productId" db:"product_id"`
	Name      string            `json:"name" db:"name"`
	Price     int64             `json:"price" db:"price"`
	Quantity  int               `json:"quantity" db:"quantity"`
	Image     *string           `json:"image" db:"image"`
	Meta      map[string]string `json:"meta" db:"meta"`
}

// LineTotal returns price times quantity in cents.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// CreateOrderRequest represents the request payload for creating an order.
type CreateOrderRequest struct {
	User     UserInput          `json:"user"`
	Items    []OrderItemRequest `json:"items"`
	Shipping json.RawMessage    `json:"shipping,omitempty"`
	Notes    *string            `json:"notes,omitempty"`
}

// UserInput is the customer block of an order request.
type UserInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Password *string `json:"password,omitempty"`
}

// OrderItemRequest represents a single item in an order request. Price and
// quantity stay as raw JSON numbers so fractional values can be reported as
// field issues instead of decode failures.
type OrderItemRequest struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Price     json.Number       `json:"price"`
	Quantity  json.Number       `json:"quantity"`
	Image     *string           `json:"image,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Number formats an integer as a JSON number.
func Number(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}

// CreateOrderResponse represents the response payload for a created order.
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
	Message string `json:"message"`
}

// UpdateStatusRequest is the body of an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
}

// OrdersResponse wraps a list of orders.
type OrdersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"orderId,omitempty"`
	UserID  int64  `json:"userId,omitempty"`
}
