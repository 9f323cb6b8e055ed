package api

import (
	"github.com/Behyna/sms-services/messagegateway/internal/api/middleware"
	v1 "github.com/Behyna/sms-services/messagegateway/internal/api/v1"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/idempotency"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const prefixV1 = "/api/v1/"

// Middlewares groups what SetupRoutes installs in front of the handlers.
type Middlewares struct {
	ServiceName string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.RateLimiter
	Store       idempotency.Store
	Health      middleware.HealthChecker
}

// NewApp builds a fiber app whose failures are always written as envelopes.
func NewApp(cfg *config.Config, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               cfg.API.Name,
		BodyLimit:             cfg.API.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
}

func SetupRoutes(app *fiber.App, handler *v1.Handler, mw Middlewares) {
	app.Use(middleware.RequestID())
	app.Use(middleware.HTTPMetrics(mw.Metrics, mw.Logger))
	app.Use(recover.New())
	app.Use(middleware.HealthCheck(mw.ServiceName, mw.Health))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(mw.Gatherer, promhttp.HandlerOpts{})))
	app.Get("/ping", handler.Pong)

	messages := app.Group(prefixV1+"messages", mw.RateLimiter.Handler(mw.Metrics))
	messages.Post("", middleware.Idempotency(mw.Store, mw.Logger, mw.Metrics), handler.CreateMessage)
	messages.Get("", handler.ListMessages)
	messages.Get("/:id", handler.GetMessage)
	messages.Delete("/:id", handler.DeleteMessage)
}
