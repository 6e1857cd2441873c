package mail

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log instead of delivering them.
// Meant for development, where the action link in the log output is
// enough to exercise the flows end to end.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a log-only sender. A nil logger falls back to
// slog.Default.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, templateName string, data map[string]string) error {
	body, err := renderBody(templateName, data)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "mail not sent, log provider active",
		"to", to,
		"subject", subject,
		"template", templateName,
		"body", body,
	)
	return nil
}
