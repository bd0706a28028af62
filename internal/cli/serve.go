package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"healthwallet/internal/app"
	"healthwallet/internal/config"
	"healthwallet/internal/database"
	"healthwallet/internal/services"
	"healthwallet/internal/storage"
	"healthwallet/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	if migrate {
		if err := database.MigrateUp(ctx, db, cfg.DBDriver, log); err != nil {
			return err
		}
	}

	files, err := storage.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	var publisher services.ShareEventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.ShareEventsQueue}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := mq.Close(); err != nil {
				log.Error("failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mq
	} else {
		log.Info("RABBITMQ_URL not set, share events disabled")
	}

	router := app.New(cfg, db, files, publisher, log).Router()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", cfg.Port), zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.DBDriver), zap.String("storage_driver", cfg.StorageDriver))
		errCh <- router.Listen(cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := router.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}
