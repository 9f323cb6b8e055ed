package middleware

import (
	"context"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthCheck answers /health before routing.
func HealthCheck(serviceName string, checker HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != "/health" {
			return c.Next()
		}

		if err := checker.HealthCheck(c.UserContext()); err != nil {
			return contract.FromCode(constants.ErrCodeUnavailable, respond.RequestID(c),
				envelope.WithContext(map[string]any{
					"service": serviceName,
					"status":  constants.StatusUnhealthy,
				}))
		}

		return respond.Success(c, fiber.StatusOK, HealthStatus{Status: constants.StatusHealthy, Service: serviceName})
	}
}
