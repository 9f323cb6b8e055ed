package respond

import (
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "requestid"
)

func SetRequestID(c *fiber.Ctx, requestID string) {
	c.Locals(requestIDKey, requestID)
	c.Set(HeaderRequestID, requestID)
}

func RequestID(c *fiber.Ctx) string {
	requestID, _ := c.Locals(requestIDKey).(string)
	return requestID
}

func Success[T any](c *fiber.Ctx, status int, data T, opts ...envelope.Option) error {
	opts = append(opts, envelope.WithRequestID(RequestID(c)))
	return c.Status(status).JSON(envelope.NewSuccess(data, opts...))
}

func Paginated[T any](c *fiber.Ctx, items []T, pagination envelope.PaginationParams, opts ...envelope.Option) error {
	opts = append(opts, envelope.WithRequestID(RequestID(c)))
	return c.Status(fiber.StatusOK).JSON(envelope.NewPaginated(items, pagination, opts...))
}

func Empty(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(envelope.NewEmpty(
		envelope.WithMessage(message),
		envelope.WithRequestID(RequestID(c)),
	))
}

func Error(c *fiber.Ctx, env envelope.Error) error {
	env = env.WithRequestID(RequestID(c))
	return c.Status(env.Err.StatusCode).JSON(env)
}
