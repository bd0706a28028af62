package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// dialectMap maps database drivers to goose dialect names.
var dialectMap = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) { l.log.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.log.Fatalf(format, v...) }

// setupGoose configures goose for driver and returns the migrations directory to use.
func setupGoose(driver string, log *zap.Logger) (string, error) {
	dialect, ok := dialectMap[driver]
	if !ok {
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set dialect: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log.Named("goose").Sugar()})
	return "migrations/" + driver, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(ctx context.Context, db *gorm.DB, driver string, log *zap.Logger) error {
	dir, err := setupGoose(driver, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *gorm.DB, driver string, log *zap.Logger) error {
	dir, err := setupGoose(driver, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(ctx context.Context, db *gorm.DB, driver string, log *zap.Logger) error {
	dir, err := setupGoose(driver, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := goose.StatusContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func MigrationVersion(ctx context.Context, db *gorm.DB, driver string) (int64, error) {
	if _, err := setupGoose(driver, nil); err != nil {
		return 0, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
