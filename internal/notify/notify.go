// Package notify delivers the rendered digest. Unlike contribution fetches,
// a delivery failure is fatal to the run.
package notify

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/fecwatch/contribution-monitor/internal/config"
	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

// Notifier defines the interface for delivering a digest
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// SMTPNotifier sends HTML mail over authenticated SMTP with STARTTLS
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(cfg config.SMTPConfig, password, to string) *SMTPNotifier {
	// gomail upgrades to STARTTLS automatically on port 587.
	dialer := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, password)
	return &SMTPNotifier{
		dialer: dialer,
		from:   cfg.FromEmail,
		to:     to,
	}
}

// Send delivers one HTML digest email
func (n *SMTPNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	// gomail has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(m); err != nil {
		return apperrors.NewNotifyError("failed to send notification email", err)
	}
	return nil
}
