package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"campus-volunteer/internal/service/email"
)

type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, msg email.Message) email.SendResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(email.SendResult)
}
