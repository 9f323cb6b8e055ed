package rpc

import "encoding/json"

const (
	MethodCreateMessage = "messages.create"
	MethodGetMessage    = "messages.get"
	MethodListMessages  = "messages.list"
	MethodDeleteMessage = "messages.delete"
)

// Request is the body of an RPC call.
type Request struct {
	Method    string          `json:"method"`
	RequestID string          `json:"requestId,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
}

type CreateMessageParams struct {
	From      string `json:"from" validate:"required,msisdn"`
	To        string `json:"to" validate:"required,msisdn"`
	Text      string `json:"text" validate:"required,max=1000"`
	MessageID string `json:"messageId" validate:"required,max=64"`
}

type MessageIDParams struct {
	ID int64 `json:"id" validate:"required,min=1"`
}

type ListMessagesParams struct {
	UserID   string `json:"userId" validate:"required,msisdn"`
	Page     int    `json:"page" validate:"omitempty,min=1,max=1000000"`
	PageSize int    `json:"pageSize" validate:"omitempty,min=1"`
}
