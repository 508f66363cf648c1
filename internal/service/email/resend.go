package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v3"

	"campus-volunteer/internal/config"
)

type resendMailer struct {
	client   *resend.Client
	fromName string
	from     string
}

func NewResendMailer(cfg *config.Config) Mailer {
	return &resendMailer{
		client:   resend.NewClient(cfg.ResendAPIKey),
		fromName: cfg.AppName,
		from:     cfg.FromEmail,
	}
}

func (m *resendMailer) Send(ctx context.Context, msg Message) SendResult {
	if msg.To == "" {
		return Failed(errors.New("recipient has no email address"))
	}
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.from),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	if _, err := m.client.Emails.Send(params); err != nil {
		return Failed(fmt.Errorf("resend: %w", err))
	}
	return Sent()
}
