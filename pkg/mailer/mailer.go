// Package mailer delivers transactional email through SendGrid, SMTP or the application log.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/pkg/config"
)

// ErrNoRecipients is returned when a message has nobody to deliver to.
var ErrNoRecipients = errors.New("message has no recipients")

// Message is a rendered email ready for delivery.
type Message struct {
	From    mail.Address
	To      []mail.Address
	Bcc     []mail.Address
	ReplyTo *mail.Address
	Subject string
	HTML    string
	Text    string
}

// Validate checks the minimum fields needed by every transport.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.From.Address == "" {
		return fmt.Errorf("message has no sender")
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("message has no content")
	}
	return nil
}

// Mailer sends one message and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// New builds the transport selected by cfg. It returns nil when email is not configured.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		return nil
	}
	switch cfg.Driver {
	case config.MailSendGrid:
		return NewSendGridMailer(cfg.SendGridAPIKey, "", logger)
	case config.MailSMTP:
		return NewSMTPMailer(SMTPSettings{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}, logger)
	case config.MailLog:
		return NewLogMailer(logger)
	default:
		return nil
	}
}

// ParseAddresses converts raw address strings, skipping blanks.
func ParseAddresses(raw []string) ([]mail.Address, error) {
	out := make([]mail.Address, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return nil, fmt.Errorf("parse address %q: %w", r, err)
		}
		out = append(out, *addr)
	}
	return out, nil
}
