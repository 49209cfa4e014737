package database

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

// NewPool creates a new PostgreSQL connection pool. When required is false an
// unreachable database is only logged: pgxpool dials lazily, so requests fail
// with 503 until the database comes up instead of the process exiting.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, required bool, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return openPool(ctx, cfg.ConnectionString(), cfg, required, logger)
}

// NewPoolFromURL creates a pool for connStr, applying the sizing from cfg. The
// database must be reachable.
func NewPoolFromURL(ctx context.Context, connStr string, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return openPool(ctx, connStr, cfg, true, logger)
}

func openPool(ctx context.Context, connStr string, cfg config.DatabaseConfig, required bool, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_connections", poolConfig.MaxConns).
		Int32("min_connections", poolConfig.MinConns).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		if required {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Warn().Err(err).Msg("database is unreachable, starting without it")
		return pool, nil
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}
