package v1

type CreateMessageRequest struct {
	From      string `json:"from" validate:"required,msisdn"`
	To        string `json:"to" validate:"required,msisdn"`
	Text      string `json:"text" validate:"required,max=1000"`
	MessageID string `json:"messageId" validate:"required,max=64"`
}

type ListMessagesRequest struct {
	UserID   string `query:"user_id" validate:"required,msisdn"`
	Page     int    `query:"page" validate:"omitempty,min=1,max=1000000"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1"`
}
