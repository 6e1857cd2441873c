package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPSender delivers plain-text mail through an SMTP relay.
type SMTPSender struct {
	cfg  SMTPConfig
	from string

	// sendMail is swapped out in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender validates the relay settings and returns a sender.
func NewSMTPSender(cfg SMTPConfig, from string) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, errors.New("mail: smtp host and port required")
	}
	if err := validateFrom(from); err != nil {
		return nil, err
	}
	return &SMTPSender{cfg: cfg, from: from, sendMail: smtp.SendMail}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, templateName string, data map[string]string) error {
	body, err := renderBody(templateName, data)
	if err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, to, subject, body))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.sendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: smtp send: %w", err)
	}
	return nil
}
