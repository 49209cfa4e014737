package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateURL rewrites a postgres:// connection string to the pgx/v5 driver scheme.
func migrateURL(connStr string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connStr, prefix) {
			return "pgx5://" + strings.TrimPrefix(connStr, prefix)
		}
	}
	return connStr
}

func newMigrate(connStr string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(connStr))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise migrations: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration to the database at connStr.
func MigrateUp(connStr string, logger zerolog.Logger) error {
	m, err := newMigrate(connStr)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msg("database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("database migrations applied")
	return nil
}

// MigrateDown rolls back every applied migration.
func MigrateDown(connStr string, logger zerolog.Logger) error {
	m, err := newMigrate(connStr)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	logger.Info().Msg("database migrations rolled back")
	return nil
}

// SchemaVersion reports the applied migration version. A database without
// migrations reports version 0.
func SchemaVersion(connStr string) (uint, bool, error) {
	m, err := newMigrate(connStr)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}
