package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Behyna/sms-services/messagegateway/internal/api"
	"github.com/Behyna/sms-services/messagegateway/internal/api/middleware"
	v1 "github.com/Behyna/sms-services/messagegateway/internal/api/v1"
	xvalidator "github.com/Behyna/sms-services/messagegateway/internal/api/validator"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/idempotency"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/Behyna/sms-services/messagegateway/internal/repository"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/mysql"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewSQLDB,
			NewRedisClient,
			NewMetrics,
			NewValidator,
			NewIdempotencyStore,
			NewRateLimiter,
			NewDatabaseCollector,
			metrics.NewSystemCollector,

			repository.NewMessageRepository,
			service.NewMessageService,
			xvalidator.NewXValidator,
			v1.NewHandler,
			api.NewApp,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger,
	m *metrics.Metrics, store idempotency.Store, limiter *middleware.RateLimiter,
	dbCollector *metrics.DatabaseCollector, sysCollector *metrics.SystemCollector,
	rdb *redis.Client, lc fx.Lifecycle,
) {
	api.SetupRoutes(app, handler, api.Middlewares{
		ServiceName: cfg.API.Name,
		Logger:      logger,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		RateLimiter: limiter,
		Store:       store,
		Health:      dbCollector,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			dbCollector.Start(cfg.Metrics.CollectInterval)
			sysCollector.Start(cfg.Metrics.CollectInterval, version, commit)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			logger.Info("HTTP server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			dbCollector.Stop()
			sysCollector.Stop()

			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}

			return rdb.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()

	db, err := mysql.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&model.Message{}); err != nil {
			return nil, fmt.Errorf("failed to migrate messages: %w", err)
		}
	}

	return db, nil
}

func NewSQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewValidator() *validator.Validate {
	return validator.New()
}

func NewIdempotencyStore(cfg *config.Config, rdb *redis.Client) idempotency.Store {
	return idempotency.NewRedisStore(rdb, cfg.Redis.IdempotencyTTL)
}

func NewRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit)
}

func NewDatabaseCollector(m *metrics.Metrics, logger *zap.Logger, db *sql.DB) *metrics.DatabaseCollector {
	return metrics.NewDatabaseCollector(m, logger, db)
}
