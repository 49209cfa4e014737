package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/internal/config"
	"atelier/internal/database"
	"atelier/internal/events"
	"atelier/internal/handler"
	"atelier/internal/repository"
	"atelier/internal/router"
	"atelier/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting atelier API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.MigrateOnStart {
		if err := database.MigrateUp(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool. Migrating needs the database up
	// front; otherwise the server starts and reports 503 until it is reachable.
	pool, err := database.NewPool(ctx, cfg.Database, cfg.Database.MigrateOnStart, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	publisher, err := newPublisher(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize repositories and services
	store := repository.NewStore(pool, logger)
	orderService := service.NewOrderService(store.Users, store.Orders, publisher, logger)
	adminService := service.NewAdminService(store.Users, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, logger)
	adminHandler := handler.NewAdminHandler(orderService, adminService, logger)

	if cfg.Auth.AdminAPIKey == "" {
		logger.Warn().Msg("ADMIN_API_KEY is not set, admin routes are open")
	}

	mux := router.New(orderHandler, adminHandler, cfg.Auth.AdminAPIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use, set SERVER_PORT to a free port: %w", cfg.Server.Port, err)
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPublisher picks Kafka when brokers are configured and drops events
// otherwise.
func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("KAFKA_BROKERS not set, order events are disabled")
		return events.NewNopPublisher(), nil
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}
