// Package commands implements the atelier CLI: the design studio, the cart,
// checkout and the admin dashboard.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"atelier/cmd/atelier/output"
	"atelier/internal/cart"
	"atelier/internal/checkout"
	"atelier/internal/client"
	"atelier/internal/config"
	"atelier/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg     *config.ClientConfig
	logger  zerolog.Logger
	storage snapshot.Storage
	api     *client.Client
	out     *output.Printer
}

// cart returns the persisted cart, loaded.
func (a *app) cart(ctx context.Context) (*cart.Store, error) {
	store := cart.NewStore(a.storage, a.logger)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return store, nil
}

// history returns the local order history, loaded.
func (a *app) history(ctx context.Context) (*checkout.History, error) {
	history := checkout.NewHistory(a.storage, a.logger)
	if err := history.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return history, nil
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: output.New(out)}
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "atelier",
		Short: "Atelier jewelry storefront",
		Long: `Atelier is the command line storefront for the jewelry API.

Design a custom piece in the studio, keep it in a persistent cart, check out
against the API and manage orders and customers from the admin commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), configFile)
		},
	}
	rootCmd.SetOut(out)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.atelier/config.yaml)")

	rootCmd.AddCommand(
		newStudioCommand(a),
		newCartCommand(a),
		newCheckoutCommand(a),
		newOrdersCommand(a),
		newAdminCommand(a),
	)
	return rootCmd
}

func (a *app) init(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadClient(viper.New(), configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = config.NewLoggerTo(cfg.Log, os.Stderr)

	if a.storage == nil {
		a.storage = newStorage(ctx, cfg, a.logger)
	}

	opts := []client.Option{}
	if cfg.AdminAPIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.AdminAPIKey))
	}
	a.api = client.New(cfg.APIURL, a.logger, opts...)
	return nil
}

// newStorage keeps snapshots in the state directory and, when enabled,
// mirrors them to S3 with the local copy as fallback.
func newStorage(ctx context.Context, cfg *config.ClientConfig, logger zerolog.Logger) snapshot.Storage {
	local := snapshot.NewFileStorage(cfg.StateDir, logger)
	if !cfg.S3.Enabled {
		return local
	}

	remote, err := snapshot.NewS3Storage(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 storage, falling back to local file system only")
		return local
	}
	return snapshot.NewFallbackStorage(remote, local, true, logger)
}
