// Package notify e-mails grantees when a report is shared with them or a share is revoked.
package notify

import (
	"context"
	"fmt"
	"strings"

	"healthwallet/internal/models"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// EmailNotifier sends share notifications through Resend. In development,
// or without an API key, messages are only logged.
type EmailNotifier struct {
	client *resend.Client
	from   string
	appURL string
	isDev  bool
	log    *zap.Logger
}

// NewEmailNotifier creates a new EmailNotifier.
func NewEmailNotifier(apiKey, from, appURL string, isDev bool, log *zap.Logger) *EmailNotifier {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}
	return &EmailNotifier{client: client, from: from, appURL: strings.TrimSuffix(appURL, "/"), isDev: isDev, log: log}
}

// NotifyShare e-mails the grantee of event.
func (n *EmailNotifier) NotifyShare(ctx context.Context, event models.ShareEvent) error {
	subject, body, ok := n.render(event)
	if !ok {
		n.log.Warn("ignoring share event of unknown type", zap.String("type", event.Type))
		return nil
	}

	if n.isDev {
		n.log.Info("email sent (dev mode)",
			zap.String("type", event.Type), zap.String("to", event.GranteeEmail), zap.String("subject", subject))
		return nil
	}
	if n.client == nil {
		return fmt.Errorf("email notifier not configured (missing RESEND_API_KEY)")
	}

	_, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{event.GranteeEmail},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", event.Type, err)
	}
	n.log.Info("email sent", zap.String("type", event.Type), zap.Uint("share_id", event.ShareID))
	return nil
}

func (n *EmailNotifier) render(event models.ShareEvent) (subject, body string, ok bool) {
	grantor := event.GrantorName
	if grantor == "" {
		grantor = "A Health Wallet user"
	}
	title := event.ReportTitle
	if title == "" {
		title = "a medical report"
	}

	switch event.Type {
	case models.ShareCreated:
		subject = fmt.Sprintf("%s shared a report with you", grantor)
		var b strings.Builder
		fmt.Fprintf(&b, "%s shared %q with you on Health Wallet (%s access).\n", grantor, title, event.AccessType)
		if event.ExpiresAt != nil {
			fmt.Fprintf(&b, "Access expires on %s.\n", event.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
		}
		fmt.Fprintf(&b, "\nSign in with %s to view it: %s/shared\n", event.GranteeEmail, n.appURL)
		return subject, b.String(), true
	case models.ShareRevoked:
		subject = fmt.Sprintf("Access to %q was revoked", title)
		body = fmt.Sprintf("%s revoked your access to %q on Health Wallet.\n", grantor, title)
		return subject, body, true
	default:
		return "", "", false
	}
}
