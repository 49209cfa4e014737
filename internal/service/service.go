package service

import (
	"context"

	"atelier/internal/model"
)

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder validates the request, upserts the customer by email and
	// stores the order with its items in one transaction.
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error)

	// ListOrders returns the most recent orders, newest first.
	ListOrders(ctx context.Context, limit int) ([]model.Order, error)

	// GetOrder retrieves an order with its items and user.
	GetOrder(ctx context.Context, id int64) (*model.Order, error)

	// ListOrdersForUser returns a user's orders, newest first.
	ListOrdersForUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateStatus sets the status of an order and returns the updated order.
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error)

	// DeleteOrder removes a completed order and its items.
	DeleteOrder(ctx context.Context, id int64) error

	// DeleteUser removes a user that owns no orders.
	DeleteUser(ctx context.Context, id int64) error
}

// AdminService defines the read side of the admin dashboard.
type AdminService interface {
	// ListUsers returns users with order aggregates, optionally filtered by a
	// case-insensitive substring of name, email or phone.
	ListUsers(ctx context.Context, query string) ([]model.UserSummary, error)
}
