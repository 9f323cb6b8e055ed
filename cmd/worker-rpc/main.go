package main

import (
	"context"
	"errors"
	"net/http"

	xvalidator "github.com/Behyna/sms-services/messagegateway/internal/api/validator"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/internal/repository"
	"github.com/Behyna/sms-services/messagegateway/internal/rpc"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/mq"
	"github.com/Behyna/sms-services/messagegateway/pkg/mysql"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewMQConnection,
			NewMQConsumer,
			NewMQPublisher,
			NewMetrics,
			NewValidator,

			repository.NewMessageRepository,
			service.NewMessageService,
			xvalidator.NewXValidator,
			rpc.NewServer,
		),
		fx.Invoke(runRPCServer),
	).Run()
}

func runRPCServer(cfg *config.Config, server rpc.Server, logger *zap.Logger, rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	metricsServer := &http.Server{Addr: cfg.Metrics.Port, Handler: promhttp.Handler()}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareRPCTopology(cfg.RPC.Topology()); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := server.Serve(appCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("rpc server exited", zap.Error(err))
				}
			}()

			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()

			logger.Info("rpc server started", zap.String("queue", cfg.RPC.Queue))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping rpc server")
			cancel()

			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", zap.Error(err))
			}

			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewValidator() *validator.Validate {
	return validator.New()
}
