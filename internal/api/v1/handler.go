package v1

import (
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/api/validator"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	service    service.MessageService
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, service service.MessageService, XValidator validator.IXValidator) *Handler {
	return &Handler{logger: logger, service: service, XValidator: XValidator}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return respond.Empty(c, constants.Pong)
}

func (h *Handler) CreateMessage(c *fiber.Ctx) error {
	start := time.Now()

	var request CreateMessageRequest
	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse body",
			zap.Error(err),
			zap.String("requestID", respond.RequestID(c)))
		return contract.FromCode(constants.ErrCodeInvalidRequestBody, respond.RequestID(c))
	}

	if responseError, ok := h.XValidator.Check(&request, "create_message"); !ok {
		h.logger.Warn("Error Validator", zap.Any("request", request))
		return responseError
	}

	cmd := service.CreateMessageCommand{
		ClientMessageID: request.MessageID,
		FromMSISDN:      request.From,
		ToMSISDN:        request.To,
		Text:            request.Text,
	}

	msg, err := h.service.CreateMessage(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Message received successfully",
		zap.Int64("messageID", msg.MessageID),
		zap.String("clientMessageID", msg.ClientMessageID),
		zap.String("from", msg.From),
		zap.Duration("duration", time.Since(start)),
	)

	return respond.Success(c, fiber.StatusCreated, msg, envelope.WithMessage(constants.MessageCreated))
}

func (h *Handler) GetMessage(c *fiber.Ctx) error {
	id, ok := messageID(c)
	if !ok {
		return invalidID(c)
	}

	msg, err := h.service.GetMessage(c.UserContext(), id)
	if err != nil {
		return err
	}

	return respond.Success(c, fiber.StatusOK, msg, envelope.WithMessage(constants.MessageFound))
}

func (h *Handler) ListMessages(c *fiber.Ctx) error {
	var request ListMessagesRequest
	if err := c.QueryParser(&request); err != nil {
		h.logger.Warn("Failed to parse query", zap.Error(err))
		return contract.FromCode(constants.ErrCodeInvalidParameter, respond.RequestID(c),
			envelope.WithDetails(string(c.Request().URI().QueryString())))
	}

	if responseError, ok := h.XValidator.Check(&request, "list_messages"); !ok {
		h.logger.Warn("Error Validator", zap.Any("request", request))
		return responseError
	}

	page, err := h.service.ListMessages(c.UserContext(), service.GetMessagesQuery{
		UserID:   request.UserID,
		Page:     request.Page,
		PageSize: request.PageSize,
	})
	if err != nil {
		return err
	}

	return respond.Paginated(c, page.Messages, page.Pagination,
		envelope.WithMeta(map[string]any{"userId": request.UserID}))
}

func (h *Handler) DeleteMessage(c *fiber.Ctx) error {
	id, ok := messageID(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.service.DeleteMessage(c.UserContext(), id); err != nil {
		return err
	}

	h.logger.Info("Message deleted", zap.Int64("messageID", id))

	return respond.Empty(c, constants.MessageDeleted)
}

func messageID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}

	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return contract.FromCode(constants.ErrCodeInvalidParameter, respond.RequestID(c),
		envelope.WithContext(map[string]any{"id": c.Params("id")}))
}
