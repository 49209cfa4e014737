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

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// UpsertByEmail inserts or updates a user keyed by email.
func (r *userRepository) UpsertByEmail(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (name, email, phone, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, user.Name, user.Email, user.Phone, user.Password).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to upsert user")
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", user.ID).
		Msg("user upserted successfully")

	return nil
}

// GetByID retrieves a user by its ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("user_id", id).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// LockByID takes a row lock on the user for the rest of the transaction.
func (r *userRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to lock user")
		return false, fmt.Errorf("failed to lock user: %w", err)
	}
	return true, nil
}

// CountOrders counts the orders owned by a user.
func (r *userRepository) CountOrders(ctx context.Context, tx pgx.Tx, userID int64) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to count user orders")
		return 0, fmt.Errorf("failed to count user orders: %w", err)
	}
	return count, nil
}

// Delete removes a user.
func (r *userRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.logger.Debug().Int64("user_id", id).Msg("user deleted successfully")
	return nil
}

// ListWithSummary retrieves users with order aggregates.
func (r *userRepository) ListWithSummary(ctx context.Context, query string) ([]model.UserSummary, error) {
	sql := `
		SELECT
			u.id, u.name, u.email, u.phone, u.created_at,
			COUNT(o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0)::BIGINT AS lifetime_value,
			last_order.status,
			last_order.created_at
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		LEFT JOIN LATERAL (
			SELECT lo.status, lo.created_at
			FROM orders lo
			WHERE lo.user_id = u.id
			ORDER BY lo.created_at DESC, lo.id DESC
			LIMIT 1
		) last_order ON TRUE
		WHERE $1 = '' OR u.name ILIKE $2 OR u.email ILIKE $2 OR u.phone ILIKE $2
		GROUP BY u.id, last_order.status, last_order.created_at
		ORDER BY u.created_at DESC, u.id DESC
	`

	rows, err := r.pool.Query(ctx, sql, query, likePattern(query))
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("failed to query user summaries")
		return nil, fmt.Errorf("failed to query user summaries: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserSummary, 0)
	for rows.Next() {
		var (
			u          model.UserSummary
			lastStatus *string
		)
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Phone,
			&u.CreatedAt,
			&u.TotalOrders,
			&u.LifetimeValue,
			&lastStatus,
			&u.LastOrderAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user summary row")
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		if lastStatus != nil {
			u.LastOrderStatus = *lastStatus
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user summary rows")
		return nil, fmt.Errorf("error iterating user summaries: %w", err)
	}

	return users, nil
}
