package repository

import (
	"context"

	"atelier/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// UpsertByEmail inserts the user or, when the email already exists, updates
	// its name and phone. The stored password is never replaced on conflict.
	// ID and CreatedAt are filled from the stored row.
	UpsertByEmail(ctx context.Context, tx pgx.Tx, user *model.User) error

	// GetByID retrieves a user by ID. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// LockByID locks the user row for the rest of the transaction. Returns
	// false if the user does not exist.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (bool, error)

	// CountOrders counts the orders owned by a user within the transaction.
	CountOrders(ctx context.Context, tx pgx.Tx, userID int64) (int, error)

	// Delete removes a user within the transaction.
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// ListWithSummary returns users, newest first, with order aggregates.
	// A non-empty query filters by case-insensitive substring on name, email
	// or phone.
	ListWithSummary(ctx context.Context, query string) ([]model.UserSummary, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and
	// fills ID, Status and CreatedAt from the stored row.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided
	// transaction and fills their IDs.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items and user. Returns nil if not found.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List returns up to limit orders, newest first, with items and user.
	List(ctx context.Context, limit int) ([]model.Order, error)

	// ListByUser returns a user's orders, newest first, with items.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateStatus sets the status of an order. Returns false if not found.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (bool, error)

	// LockStatus locks the order row within the transaction and returns its
	// status. Returns false if not found.
	LockStatus(ctx context.Context, tx pgx.Tx, id int64) (model.OrderStatus, bool, error)

	// DeleteItems removes every item of an order within the transaction.
	DeleteItems(ctx context.Context, tx pgx.Tx, orderID int64) (int64, error)

	// Delete removes an order within the transaction.
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}
