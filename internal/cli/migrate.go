package cli

import (
	"context"
	"fmt"

	"healthwallet/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type migrateFunc func(ctx context.Context, db *gorm.DB, driver string, log *zap.Logger) error

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(migrateSubcommand("up", "Apply all pending migrations", database.MigrateUp))
	cmd.AddCommand(migrateSubcommand("down", "Roll back the most recent migration", database.MigrateDown))
	cmd.AddCommand(migrateSubcommand("status", "Show the state of every migration", database.MigrationStatus))
	return cmd
}

func migrateSubcommand(use, short string, run migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := run(cmd.Context(), db, cfg.DBDriver, log); err != nil {
				return err
			}

			version, err := database.MigrationVersion(cmd.Context(), db, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	}
}
