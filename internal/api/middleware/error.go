package middleware

import (
	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		env := contract.FromError(err, respond.RequestID(c))

		fields := []zap.Field{
			zap.Error(err),
			zap.String("code", env.Err.Code),
			zap.Int("status", env.Err.StatusCode),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("requestID", respond.RequestID(c)),
		}

		if env.Err.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("Request failed", fields...)
		} else {
			logger.Warn("Request rejected", fields...)
		}

		return respond.Error(c, env)
	}
}

// settle hands err to the application's error handler so the response is
// final before the calling middleware inspects it.
func settle(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}

	if handlerErr := c.App().Config().ErrorHandler(c, err); handlerErr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
