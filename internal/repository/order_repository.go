package repository

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderColumns selects an order joined with its owner.
const orderColumns = `
	o.id, o.user_id, o.total_amount, o.status, o.shipping, o.notes, o.created_at,
	u.id, u.name, u.email, u.phone, u.created_at
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (user_id, total_amount, shipping, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at
	`

	err := tx.QueryRow(ctx, query, order.UserID, order.TotalAmount, rawJSON(order.Shipping), order.Notes).
		Scan(&order.ID, &order.Status, &order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("user_id", order.UserID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, name, price, quantity, image, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		meta, err := encodeJSON(item.Meta)
		if err != nil {
			return err
		}
		batch.Queue(query, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Image, meta)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order    model.Order
		user     model.User
		shipping []byte
	)
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&shipping,
		&order.Notes,
		&order.CreatedAt,
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if shipping != nil {
		order.Shipping = shipping
	}
	order.User = &user
	return &order, nil
}

// GetByID retrieves an order by its ID along with its items and user.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// List returns the most recent orders.
func (r *orderRepository) List(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $1
	`
	return r.queryOrders(ctx, query, limit)
}

// ListByUser returns the orders of one user.
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC
	`
	return r.queryOrders(ctx, query, userID)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of every order in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = make([]model.OrderItem, 0)
	}

	query := `
		SELECT id, order_id, product_id, name, price, quantity, image, meta
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item model.OrderItem
			meta []byte
		)
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.Image,
			&meta,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.Meta, err = decodeJSON(meta); err != nil {
			return err
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// UpdateStatus sets the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Debug().
		Int64("order_id", id).
		Str("status", status.String()).
		Msg("order status updated")
	return true, nil
}

// LockStatus locks the order row and returns its status.
func (r *orderRepository) LockStatus(ctx context.Context, tx pgx.Tx, id int64) (model.OrderStatus, bool, error) {
	var status model.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to lock order")
		return "", false, fmt.Errorf("failed to lock order: %w", err)
	}
	return status, true, nil
}

// DeleteItems removes every item of an order.
func (r *orderRepository) DeleteItems(ctx context.Context, tx pgx.Tx, orderID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to delete order items")
		return 0, fmt.Errorf("failed to delete order items: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	r.logger.Debug().Int64("order_id", id).Msg("order deleted successfully")
	return nil
}
