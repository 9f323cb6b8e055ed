package middleware

import (
	"bytes"
	"errors"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/internal/idempotency"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// Idempotency replays the stored envelope for a repeated Idempotency-Key.
// The key is reserved before the handler runs, so a concurrent duplicate gets
// REQUEST_IN_PROGRESS instead of executing twice. Server faults release the
// key so the client can retry them.
func Idempotency(store idempotency.Store, logger *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" || len(key) > maxIdempotencyKeyLength {
			return c.Next()
		}

		storeKey := c.Method() + ":" + c.Path() + ":" + key
		ctx := c.UserContext()

		record, reserved, err := store.Reserve(ctx, storeKey)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			logger.Warn("Idempotent request already in progress",
				zap.String("idempotencyKey", key),
				zap.String("requestID", respond.RequestID(c)))

			c.Set(fiber.HeaderRetryAfter, "1")
			return contract.FromCode(constants.ErrCodeRequestInProgress, respond.RequestID(c))
		case err != nil:
			logger.Error("Failed to reserve idempotency key", zap.String("idempotencyKey", key), zap.Error(err))
			return c.Next()
		case !reserved:
			m.RecordIdempotentReplay()
			logger.Info("Replaying idempotent response",
				zap.String("idempotencyKey", key),
				zap.String("requestID", respond.RequestID(c)))

			c.Set(HeaderReplayed, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(record.Status).Send(record.Body)
		}

		settle(c, c.Next())

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Release(ctx, storeKey); err != nil {
				logger.Error("Failed to release idempotency key", zap.String("idempotencyKey", key), zap.Error(err))
			}
			return nil
		}

		record = idempotency.Record{Status: status, Body: bytes.Clone(c.Response().Body())}
		if err := store.Complete(ctx, storeKey, record); err != nil {
			logger.Error("Failed to save idempotency record", zap.String("idempotencyKey", key), zap.Error(err))
		}

		return nil
	}
}
