package mocks

import (
	"context"

	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type MessageService struct {
	mock.Mock
}

func (m *MessageService) CreateMessage(ctx context.Context, cmd service.CreateMessageCommand) (service.Message, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.Message), args.Error(1)
}

func (m *MessageService) GetMessage(ctx context.Context, messageID int64) (service.Message, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(service.Message), args.Error(1)
}

func (m *MessageService) ListMessages(ctx context.Context, query service.GetMessagesQuery) (service.MessagePage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(service.MessagePage), args.Error(1)
}

func (m *MessageService) DeleteMessage(ctx context.Context, messageID int64) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}
