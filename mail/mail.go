// Package mail delivers the transactional messages the authentication
// flows produce: password reset links and email verification links.
// Sender implementations exist for Mailgun, plain SMTP, and a log-only
// sender for development.
package mail

import (
	"context"
	"errors"
	"fmt"
)

// Template names understood by every sender.
const (
	TemplatePasswordReset     = "password-reset"
	TemplateEmailVerification = "email-verification"
)

// Sender sends one templated message to one recipient. The data map
// carries the template variables, appName and actionUrl among them.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, templateName string, data map[string]string) error
}

// Providers accepted by Config.Provider.
const (
	ProviderMailgun = "mailgun"
	ProviderSMTP    = "smtp"
	ProviderLog     = "log"
)

// Config selects and configures a provider.
type Config struct {
	Provider string
	From     string
	Mailgun  MailgunConfig
	SMTP     SMTPConfig
}

// MailgunConfig holds the Mailgun API credentials.
type MailgunConfig struct {
	Domain string
	APIKey string
}

// SMTPConfig holds plain SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// NewSender builds a sender for the configured provider. An empty or
// "log" provider yields the development sender, which only logs.
func NewSender(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case ProviderMailgun:
		return NewMailgunSender(cfg.Mailgun, cfg.From)
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTP, cfg.From)
	case ProviderLog, "":
		return NewLogSender(nil), nil
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}

func validateFrom(from string) error {
	if from == "" {
		return errors.New("mail: from address required")
	}
	return nil
}
