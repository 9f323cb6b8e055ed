package mocks

import (
	"context"

	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *MessageRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Message, error) {
	args := m.Called(ctx, userID, limit, offset)
	messages, _ := args.Get(0).([]model.Message)
	return messages, args.Error(1)
}

func (m *MessageRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
