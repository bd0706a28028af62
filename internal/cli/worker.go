package cli

import (
	"os/signal"
	"syscall"

	"healthwallet/internal/notify"
	"healthwallet/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Send e-mail notifications for share events",
		Long:  "Consumes share.created and share.revoked events from RabbitMQ and e-mails the grantee through Resend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.RabbitMQURL == "" {
				return errRabbitMQRequired
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.ShareEventsQueue}, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := mq.Close(); err != nil {
					log.Error("failed to close RabbitMQ client", zap.Error(err))
				}
			}()

			notifier := notify.NewEmailNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL, cfg.IsDevelopment(), log)
			return mq.ConsumeShareEvents(ctx, notifier.NotifyShare)
		},
	}
}
