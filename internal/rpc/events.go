package rpc

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Routing keys on the events exchange.
const (
	EventMessageCreated = "message.created"
	EventMessageDeleted = "message.deleted"
)

// Event announces a message lifecycle change to other services.
type Event struct {
	Type            string    `json:"type"`
	MessageID       int64     `json:"messageId"`
	ClientMessageID string    `json:"clientMessageId,omitempty"`
	From            string    `json:"from,omitempty"`
	RequestID       string    `json:"requestId,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// emit publishes ev on the events exchange. Failures are logged only; the
// caller has already committed the change and still gets its reply.
func (s *server) emit(ctx context.Context, ev Event) {
	if s.cfg.EventsExchange == "" {
		return
	}

	ev.OccurredAt = time.Now().UTC()

	body, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to encode event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, s.cfg.EventsExchange, ev.Type, body); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", ev.Type),
			zap.Int64("messageID", ev.MessageID),
			zap.Error(err))
	}
}
