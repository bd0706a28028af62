// Package cli holds the healthwallet command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"healthwallet/internal/config"
	"healthwallet/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "healthwallet",
		Short: "Personal health record API",
		Long: `Health Wallet stores medical reports, vital-sign readings and the
e-mail based shares that let other people view a report.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newWorkerCommand())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger every command shares.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

var errRabbitMQRequired = errors.New("RABBITMQ_URL is required for the worker")
