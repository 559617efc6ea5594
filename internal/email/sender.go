// Package email delivers reports over SMTP.
package email

import (
	"context"
	"fmt"

	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTP sends through the configured relay.
type SMTP struct {
	client      *mail.Client
	fromName    string
	fromAddress string
}

// New builds the sender from configuration: the SMTP client when email
// is enabled, the logging no-op otherwise.
func New(cfg config.EmailConfig, log *logger.Logger) (Sender, error) {
	if !cfg.IsEmailEnabled() {
		log.Info("email delivery disabled, using no-op sender")
		return NewNoop(log), nil
	}

	client, err := mail.NewClient(cfg.GetSMTPHost(),
		mail.WithPort(cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.GetSMTPUsername()),
		mail.WithPassword(cfg.GetSMTPPassword()),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTP{
		client:      client,
		fromName:    cfg.GetEmailFromName(),
		fromAddress: cfg.GetEmailFromAddress(),
	}, nil
}

func (s *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromAddress); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Noop logs instead of sending; used in development.
type Noop struct {
	log *logger.Logger
}

func NewNoop(log *logger.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) Send(_ context.Context, to, subject, _ string) error {
	n.log.Info("mock email", "to", to, "subject", subject)
	return nil
}
