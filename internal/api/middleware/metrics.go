package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const transportHTTP = "http"

// HTTPMetrics records request metrics and classifies every JSON response as a
// response envelope. Errors from inner handlers are settled here.
func HTTPMetrics(m *metrics.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		settle(c, c.Next())

		duration := time.Since(start)

		method := c.Method()
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		statusCode := strconv.Itoa(c.Response().StatusCode())
		body := c.Response().Body()

		m.RecordHTTPRequest(method, path, statusCode, duration, len(body))

		if strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMEApplicationJSON) {
			recordEnvelope(m, logger, path, body)
		}

		if duration > time.Second {
			logger.Warn("Slow HTTP request",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("status_code", statusCode),
				zap.Duration("duration", duration),
				zap.Int("response_size", len(body)),
			)
		}

		return nil
	}
}

func recordEnvelope(m *metrics.Metrics, logger *zap.Logger, path string, body []byte) {
	env, err := envelope.Decode(body)
	if err != nil {
		m.RecordMalformedResponse()
		logger.Error("Response is not a valid envelope", zap.String("path", path), zap.Error(err))
		return
	}

	code := ""
	if failure, ok := env.(envelope.Error); ok {
		code = failure.Err.Code
	}

	m.RecordEnvelope(transportHTTP, env.Kind().String(), code)
}
