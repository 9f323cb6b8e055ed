package model

import (
	"time"

	"gorm.io/gorm"
)

type MessageStatus string

const (
	MessageStatusCreated   MessageStatus = "CREATED"
	MessageStatusSubmitted MessageStatus = "SUBMITTED"
	MessageStatusFailed    MessageStatus = "FAILED"
)

type Message struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	ClientMessageID string         `gorm:"column:client_message_id;size:64;index:idx_client_msg_from,unique"`
	FromMSISDN      string         `gorm:"column:from_msisdn;size:16;index:idx_client_msg_from,unique;index:idx_from_created"`
	ToMSISDN        string         `gorm:"column:to_msisdn;size:16"`
	Text            string         `gorm:"column:text"`
	Status          MessageStatus  `gorm:"column:status;size:16"`
	CreatedAt       time.Time      `gorm:"column:created_at;index:idx_from_created"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
	// DeleteToken is 0 while the row is live and the row id once it is
	// deleted, so a deleted message releases its client id.
	DeleteToken int64 `gorm:"column:delete_token;not null;default:0;index:idx_client_msg_from,unique"`
}
