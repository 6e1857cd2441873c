package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 30 * time.Second

// MailgunSender delivers mail through the Mailgun API using stored
// templates. The template names match the constants in this package.
type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

// NewMailgunSender validates the credentials and returns a sender.
func NewMailgunSender(cfg MailgunConfig, from string) (*MailgunSender, error) {
	if cfg.Domain == "" || cfg.APIKey == "" {
		return nil, errors.New("mail: mailgun domain and api key required")
	}
	if err := validateFrom(from); err != nil {
		return nil, err
	}
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: from,
	}, nil
}

func (s *MailgunSender) SendEmail(ctx context.Context, to, subject, templateName string, data map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	message := s.mg.NewMessage(s.from, subject, "")
	message.SetTemplate(templateName)
	if err := message.AddRecipient(to); err != nil {
		return fmt.Errorf("mail: add recipient: %w", err)
	}
	for k, v := range data {
		if err := message.AddVariable(k, v); err != nil {
			return fmt.Errorf("mail: add variable %s: %w", k, err)
		}
	}

	_, _, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mail: mailgun send: %w", err)
	}
	return nil
}
