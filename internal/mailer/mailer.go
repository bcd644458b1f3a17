// Package mailer sends transactional email (OTP codes and student receipts)
// through a configurable provider.
package mailer

import (
	"context"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/config"
)

const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderConsole  = "console"
)

// ErrNotConfigured is returned when the selected provider lacks credentials.
var ErrNotConfigured = errors.New("email provider is not configured")

type Message struct {
	To       []mail.Address
	Subject  string
	TextBody string
	HTMLBody string
}

func (m *Message) HasRecipients() bool { return len(m.To) > 0 }

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// New selects the provider named in the configuration.
func New(cfg config.MailConfig, logger zerolog.Logger) (Sender, error) {
	from := mail.Address{Name: cfg.FromName, Address: cfg.Email}

	switch strings.ToLower(cfg.Provider) {
	case ProviderSMTP:
		if cfg.Email == "" || cfg.Password == "" {
			return nil, errors.Wrap(ErrNotConfigured, "smtp requires mail.email and mail.password")
		}
		return NewSMTPSender(cfg.SMTPServer, cfg.SMTPPort, cfg.Email, cfg.Password, from), nil
	case ProviderSendGrid:
		if cfg.SendGridKey == "" || cfg.Email == "" {
			return nil, errors.Wrap(ErrNotConfigured, "sendgrid requires mail.sendgrid_key and mail.email")
		}
		return NewSendGridSender(cfg.SendGridKey, from), nil
	case ProviderConsole, "":
		return NewConsoleSender(logger), nil
	default:
		return nil, errors.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
