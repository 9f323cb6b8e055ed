package service

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateMessageCommand struct {
	ClientMessageID string
	FromMSISDN      string
	ToMSISDN        string
	Text            string
}

type GetMessagesQuery struct {
	UserID   string
	Page     int
	PageSize int
}

func (q GetMessagesQuery) normalized() GetMessagesQuery {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	return q
}
