package email

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// consoleMailer logs messages instead of sending them. It is used when no
// transactional email provider is configured.
type consoleMailer struct {
	logger *zap.Logger
}

func NewConsoleMailer(logger *zap.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) SendResult {
	if msg.To == "" {
		return Failed(errors.New("recipient has no email address"))
	}
	m.logger.Info("email (console)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return Sent()
}
