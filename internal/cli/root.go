// Package cli provides the command-line interface for the stock data
// updater: batch group updates, README regeneration, and constituent
// refresh.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stockdata/internal/config"
	"stockdata/internal/infrastructure"
	"stockdata/internal/registry"
)

// app holds the shared dependencies built once per invocation.
type app struct {
	cfg      *config.Config
	paths    *config.Paths
	registry *registry.Registry
	logger   *slog.Logger
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stockdata",
		Short: "Daily historical stock data updater",
		Long: `stockdata downloads historical daily OHLCV price data for predefined
ticker groups from Yahoo Finance, writes one CSV file per ticker, and
regenerates the repository status README. Designed to run under a CI
scheduler with the largest group sharded across parallel workers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.AddCommand(newUpdateCmd(a))
	rootCmd.AddCommand(newReadmeCmd(a))
	rootCmd.AddCommand(newRefreshSP500Cmd(a))

	return rootCmd
}

// init loads configuration and wires the logger, paths, and registry.
func (a *app) init(cmd *cobra.Command) error {
	// A missing .env is fine; env vars may come from CI directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.paths = config.NewPaths(cfg.Paths)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	reg, err := registry.Load(cfg.Paths.GroupsFile)
	if err != nil {
		return fmt.Errorf("failed to load ticker registry: %w", err)
	}
	a.registry = reg

	// One run ID per invocation so shard logs can be correlated.
	cmd.SetContext(infrastructure.WithRunID(cmd.Context(), uuid.NewString()))
	return nil
}
