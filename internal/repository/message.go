package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

var ErrMessageNotFound = errors.New("MESSAGE_NOT_FOUND")
var ErrMessageDuplicate = errors.New("MESSAGE_DUPLICATE")

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Message, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Message struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &Message{db: db}
}

func (m *Message) Create(ctx context.Context, message *model.Message) error {
	err := m.db.WithContext(ctx).Create(message).Error
	if err == nil {
		return nil
	}

	if IsDuplicateEntry(err) {
		return ErrMessageDuplicate
	}

	return err
}

func (m *Message) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var message model.Message

	err := m.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err == nil {
		return &message, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}

	return nil, err
}

func (m *Message) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Message, error) {
	var messages []model.Message

	err := m.db.WithContext(ctx).Where("from_msisdn = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (m *Message) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := m.db.WithContext(ctx).Model(&model.Message{}).
		Where("from_msisdn = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (m *Message) Delete(ctx context.Context, id int64) error {
	result := softDelete(m.db.WithContext(ctx), id, time.Now())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

// softDelete marks the row deleted and moves it out of the live unique key.
func softDelete(tx *gorm.DB, id int64, now time.Time) *gorm.DB {
	return tx.Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted_at":   now,
			"delete_token": gorm.Expr("id"),
		})
}

func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
