package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/Behyna/sms-services/messagegateway/internal/repository"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"go.uber.org/zap"
)

type MessageService interface {
	CreateMessage(ctx context.Context, cmd CreateMessageCommand) (Message, error)
	GetMessage(ctx context.Context, messageID int64) (Message, error)
	ListMessages(ctx context.Context, query GetMessagesQuery) (MessagePage, error)
	DeleteMessage(ctx context.Context, messageID int64) error
}

type message struct {
	messageRepo repository.MessageRepository
	logger      *zap.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, logger *zap.Logger) MessageService {
	return &message{messageRepo: messageRepo, logger: logger}
}

func (m *message) CreateMessage(ctx context.Context, cmd CreateMessageCommand) (Message, error) {
	now := time.Now()
	msg := model.Message{
		ClientMessageID: cmd.ClientMessageID,
		FromMSISDN:      cmd.FromMSISDN,
		ToMSISDN:        cmd.ToMSISDN,
		Text:            cmd.Text,
		Status:          model.MessageStatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := m.messageRepo.Create(ctx, &msg)
	if errors.Is(err, repository.ErrMessageDuplicate) {
		m.logger.Warn("Duplicate message detected",
			zap.String("fromMSISDN", cmd.FromMSISDN),
			zap.String("clientMessageID", cmd.ClientMessageID))
		return Message{}, NewServiceError(constants.ErrCodeDuplicateMessage, err)
	}

	if err != nil {
		m.logger.Error("Failed to create message",
			zap.String("clientMessageID", cmd.ClientMessageID),
			zap.Error(err))
		return Message{}, NewServiceError(ErrCodeDatabase, err)
	}

	return toMessage(msg), nil
}

func (m *message) GetMessage(ctx context.Context, messageID int64) (Message, error) {
	msg, err := m.messageRepo.GetByID(ctx, messageID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return Message{}, NewServiceError(constants.ErrCodeMessageNotFound, ErrMessageNotFound)
	}

	if err != nil {
		m.logger.Error("Failed to get message",
			zap.Int64("messageID", messageID),
			zap.Error(err))
		return Message{}, NewServiceError(ErrCodeDatabase, err)
	}

	return toMessage(*msg), nil
}

func (m *message) ListMessages(ctx context.Context, query GetMessagesQuery) (MessagePage, error) {
	query = query.normalized()

	total, err := m.messageRepo.CountByUserID(ctx, query.UserID)
	if err != nil {
		m.logger.Error("Failed to count messages",
			zap.String("userID", query.UserID),
			zap.Error(err))
		return MessagePage{}, NewServiceError(ErrCodeDatabase, err)
	}

	pagination := envelope.NewPaginationParams(query.Page, query.PageSize, total)
	messages := make([]Message, 0, query.PageSize)

	if query.Page > pagination.TotalPages {
		return MessagePage{Messages: messages, Pagination: pagination}, nil
	}

	rows, err := m.messageRepo.GetByUserID(ctx, query.UserID, query.PageSize, pagination.Offset())
	if err != nil {
		m.logger.Error("Failed to list messages",
			zap.String("userID", query.UserID),
			zap.Int("page", query.Page),
			zap.Error(err))
		return MessagePage{}, NewServiceError(ErrCodeDatabase, err)
	}

	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}

	return MessagePage{Messages: messages, Pagination: pagination}, nil
}

func (m *message) DeleteMessage(ctx context.Context, messageID int64) error {
	err := m.messageRepo.Delete(ctx, messageID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return NewServiceError(constants.ErrCodeMessageNotFound, ErrMessageNotFound)
	}

	if err != nil {
		m.logger.Error("Failed to delete message",
			zap.Int64("messageID", messageID),
			zap.Error(err))
		return NewServiceError(ErrCodeDatabase, err)
	}

	m.logger.Info("Message deleted", zap.Int64("messageID", messageID))

	return nil
}
