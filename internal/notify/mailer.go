package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/config"
	"gopkg.in/gomail.v2"
)

var (
	// ErrEmptyRecipient is returned when a message has no To address.
	ErrEmptyRecipient = errors.New("empty recipient")

	// ErrMailDisabled is returned by NopMailer.
	ErrMailDisabled = errors.New("mail disabled")
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through an SMTP relay such as SendGrid's, which
// authenticates with the literal user "apikey" and the API key as password.
type SMTPMailer struct {
	from   string
	send   func(m ...*gomail.Message) error
	logger *slog.Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from the email configuration.
func NewSMTPMailer(cfg config.EmailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.APIKey)
	return &SMTPMailer{
		from:   cfg.From,
		send:   d.DialAndSend,
		logger: logger.With("component", "smtp_mailer"),
	}
}

// Send implements Mailer. The gomail dialer does not take a context, so
// cancellation is only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrEmptyRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.send(gm); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", slog.String("kind", msg.Kind))
	return nil
}

// NopMailer drops every message with ErrMailDisabled. It is used when no
// mail credentials are configured.
type NopMailer struct{}

// Send implements Mailer.
func (NopMailer) Send(context.Context, Message) error {
	return ErrMailDisabled
}

// NewMailer returns an SMTPMailer when mail is configured and a NopMailer otherwise.
func NewMailer(cfg config.EmailConfig, logger *slog.Logger) Mailer {
	if !cfg.Enabled() {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("email api key not set, outbound mail disabled")
		return NopMailer{}
	}
	return NewSMTPMailer(cfg, logger)
}
