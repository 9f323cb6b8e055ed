package service

import (
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
)

type Message struct {
	MessageID       int64  `json:"messageId"`
	ClientMessageID string `json:"clientMessageId"`
	From            string `json:"from"`
	To              string `json:"to"`
	Text            string `json:"text"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

type MessagePage struct {
	Messages   []Message
	Pagination envelope.PaginationParams
}

func toMessage(m model.Message) Message {
	return Message{
		MessageID:       m.ID,
		ClientMessageID: m.ClientMessageID,
		From:            m.FromMSISDN,
		To:              m.ToMSISDN,
		Text:            m.Text,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
