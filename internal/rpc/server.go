// Package rpc answers AMQP request/reply calls with response envelopes.
package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/api/validator"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/Behyna/sms-services/messagegateway/pkg/mq"
	"go.uber.org/zap"
)

const (
	transportRPC = "rpc"

	methodInvalid = "invalid"
	methodUnknown = "unknown"
)

type Server interface {
	Serve(ctx context.Context) error
}

type server struct {
	cfg        config.RPC
	service    service.MessageService
	consumer   mq.Consumer
	publisher  mq.Publisher
	XValidator validator.IXValidator
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, service service.MessageService, consumer mq.Consumer, publisher mq.Publisher,
	XValidator validator.IXValidator, metrics *metrics.Metrics, logger *zap.Logger,
) Server {
	return &server{
		cfg:        cfg.RPC,
		service:    service,
		consumer:   consumer,
		publisher:  publisher,
		XValidator: XValidator,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *server) Serve(ctx context.Context) error {
	return s.consumer.Consume(ctx, s.cfg.Prefetch, s.cfg.Queue, s.handleMessage)
}

func (s *server) handleMessage(ctx context.Context, d mq.Delivery) error {
	if d.ReplyTo == "" {
		s.logger.Warn("dropping rpc request without reply queue",
			zap.String("correlationID", d.CorrelationID),
			zap.String("messageID", d.MessageID))
		return nil
	}

	start := time.Now()

	method, env := s.dispatch(ctx, d)

	body, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("failed to encode rpc reply", zap.String("method", method), zap.Error(err))
		env = contract.FromCode(constants.ErrCodeInternalError, d.CorrelationID)
		body, _ = json.Marshal(env)
	}

	code := ""
	if failure, ok := env.(envelope.Error); ok {
		code = failure.Err.Code
	}

	s.metrics.RecordRPCRequest(method, env.Kind().String(), time.Since(start))
	s.metrics.RecordEnvelope(transportRPC, env.Kind().String(), code)

	if err := s.publisher.Reply(ctx, d.ReplyTo, d.CorrelationID, body); err != nil {
		s.logger.Error("failed to publish rpc reply",
			zap.String("method", method),
			zap.String("replyTo", d.ReplyTo),
			zap.Error(err))
		return mq.Temporary(err)
	}

	return nil
}

func (s *server) dispatch(ctx context.Context, d mq.Delivery) (string, envelope.Envelope) {
	var req Request
	if err := json.Unmarshal(d.Body, &req); err != nil {
		s.logger.Warn("invalid rpc request", zap.Error(err), zap.String("correlationID", d.CorrelationID))
		return methodInvalid, contract.FromCode(constants.ErrCodeInvalidRequestBody, d.CorrelationID)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = d.CorrelationID
	}

	switch req.Method {
	case MethodCreateMessage:
		return req.Method, s.createMessage(ctx, req.Params, requestID)
	case MethodGetMessage:
		return req.Method, s.getMessage(ctx, req.Params, requestID)
	case MethodListMessages:
		return req.Method, s.listMessages(ctx, req.Params, requestID)
	case MethodDeleteMessage:
		return req.Method, s.deleteMessage(ctx, req.Params, requestID)
	default:
		s.logger.Warn("unknown rpc method", zap.String("method", req.Method), zap.String("requestID", requestID))
		return methodUnknown, contract.FromCode(constants.ErrCodeUnknownMethod, requestID,
			envelope.WithContext(map[string]any{"method": req.Method}))
	}
}

func (s *server) createMessage(ctx context.Context, raw json.RawMessage, requestID string) envelope.Envelope {
	var params CreateMessageParams
	if env, ok := s.bind(raw, &params, MethodCreateMessage, requestID); !ok {
		return env
	}

	msg, err := s.service.CreateMessage(ctx, service.CreateMessageCommand{
		ClientMessageID: params.MessageID,
		FromMSISDN:      params.From,
		ToMSISDN:        params.To,
		Text:            params.Text,
	})
	if err != nil {
		return contract.FromError(err, requestID)
	}

	s.emit(ctx, Event{
		Type:            EventMessageCreated,
		MessageID:       msg.MessageID,
		ClientMessageID: msg.ClientMessageID,
		From:            msg.From,
		RequestID:       requestID,
	})

	return envelope.NewSuccess(msg, envelope.WithMessage(constants.MessageCreated), envelope.WithRequestID(requestID))
}

func (s *server) getMessage(ctx context.Context, raw json.RawMessage, requestID string) envelope.Envelope {
	var params MessageIDParams
	if env, ok := s.bind(raw, &params, MethodGetMessage, requestID); !ok {
		return env
	}

	msg, err := s.service.GetMessage(ctx, params.ID)
	if err != nil {
		return contract.FromError(err, requestID)
	}

	return envelope.NewSuccess(msg, envelope.WithMessage(constants.MessageFound), envelope.WithRequestID(requestID))
}

func (s *server) listMessages(ctx context.Context, raw json.RawMessage, requestID string) envelope.Envelope {
	var params ListMessagesParams
	if env, ok := s.bind(raw, &params, MethodListMessages, requestID); !ok {
		return env
	}

	page, err := s.service.ListMessages(ctx, service.GetMessagesQuery{
		UserID:   params.UserID,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		return contract.FromError(err, requestID)
	}

	return envelope.NewPaginated(page.Messages, page.Pagination,
		envelope.WithRequestID(requestID),
		envelope.WithMeta(map[string]any{"userId": params.UserID}))
}

func (s *server) deleteMessage(ctx context.Context, raw json.RawMessage, requestID string) envelope.Envelope {
	var params MessageIDParams
	if env, ok := s.bind(raw, &params, MethodDeleteMessage, requestID); !ok {
		return env
	}

	if err := s.service.DeleteMessage(ctx, params.ID); err != nil {
		return contract.FromError(err, requestID)
	}

	s.emit(ctx, Event{Type: EventMessageDeleted, MessageID: params.ID, RequestID: requestID})

	return envelope.NewEmpty(envelope.WithMessage(constants.MessageDeleted), envelope.WithRequestID(requestID))
}

// bind decodes and validates params. An absent params object decodes as {}.
func (s *server) bind(raw json.RawMessage, params any, method, requestID string) (envelope.Error, bool) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	if err := json.Unmarshal(raw, params); err != nil {
		s.logger.Warn("invalid rpc params", zap.String("method", method), zap.Error(err))
		return contract.FromCode(constants.ErrCodeInvalidRequestBody, requestID), false
	}

	if env, ok := s.XValidator.Check(params, method); !ok {
		return env.WithRequestID(requestID), false
	}

	return envelope.Error{}, true
}
