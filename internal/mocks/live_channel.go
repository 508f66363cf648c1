package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"campus-volunteer/internal/service/live"
)

type LiveChannel struct {
	mock.Mock
}

func (m *LiveChannel) EmitToRecipient(ctx context.Context, recipientID uuid.UUID, event string, payload any) error {
	args := m.Called(ctx, recipientID, event, payload)
	return args.Error(0)
}

func (m *LiveChannel) Broadcast(ctx context.Context, event string, payload any) error {
	args := m.Called(ctx, event, payload)
	return args.Error(0)
}

func (m *LiveChannel) Subscribe(ctx context.Context, recipientID uuid.UUID) (*live.Subscription, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*live.Subscription), args.Error(1)
}
