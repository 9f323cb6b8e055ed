package metrics

import (
	"context"
	"database/sql"
	"errors"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoDatabase is returned by health checks when no pool is attached.
var ErrNoDatabase = errors.New("DATABASE_UNAVAILABLE")

type ticking struct {
	ticker *time.Ticker
	stopCh chan struct{}
	once   sync.Once
}

func (t *ticking) start(interval time.Duration, fn func()) {
	t.ticker = time.NewTicker(interval)
	t.stopCh = make(chan struct{})

	go func() {
		fn()
		for {
			select {
			case <-t.ticker.C:
				fn()
			case <-t.stopCh:
				return
			}
		}
	}()
}

func (t *ticking) stop() {
	t.once.Do(func() {
		if t.ticker == nil {
			return
		}
		t.ticker.Stop()
		close(t.stopCh)
	})
}

// SystemCollector publishes runtime statistics.
type SystemCollector struct {
	ticking
	metrics   *Metrics
	logger    *zap.Logger
	startTime time.Time
}

func NewSystemCollector(metrics *Metrics, logger *zap.Logger) *SystemCollector {
	return &SystemCollector{
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
	}
}

func (sc *SystemCollector) Start(interval time.Duration, version, commit string) {
	sc.metrics.SetServiceVersion(version, commit, sc.startTime.Format("2006-01-02"))
	sc.start(interval, sc.collect)
	sc.logger.Info("System metrics collector started", zap.Duration("interval", interval))
}

func (sc *SystemCollector) Stop() {
	sc.stop()
	sc.logger.Info("System metrics collector stopped")
}

func (sc *SystemCollector) collect() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sc.metrics.UpdateSystemMetrics(time.Since(sc.startTime), &memStats)
}

// Pinger is the part of *sql.DB the database collector needs.
type Pinger interface {
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
}

// DatabaseCollector publishes pool statistics and times queries.
type DatabaseCollector struct {
	ticking
	metrics *Metrics
	logger  *zap.Logger
	db      Pinger
}

func NewDatabaseCollector(metrics *Metrics, logger *zap.Logger, db Pinger) *DatabaseCollector {
	return &DatabaseCollector{metrics: metrics, logger: logger, db: db}
}

func (dc *DatabaseCollector) Start(interval time.Duration) {
	if dc.db == nil {
		dc.logger.Warn("Cannot start database metrics collector: no database")
		return
	}

	dc.start(interval, dc.collect)
	dc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dc *DatabaseCollector) Stop() {
	dc.stop()
}

func (dc *DatabaseCollector) collect() {
	stats := dc.db.Stats()

	dc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	dc.logger.Debug("Database connection stats",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
}

// WithMetrics times fn and records it under operation and table.
func (dc *DatabaseCollector) WithMetrics(operation, table string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}

	dc.metrics.RecordDBQuery(operation, table, status, duration)

	if duration > 100*time.Millisecond {
		dc.logger.Warn("Slow database query",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}

	return err
}

func (dc *DatabaseCollector) HealthCheck(ctx context.Context) error {
	if dc.db == nil {
		dc.metrics.RecordDBConnectionError()
		return ErrNoDatabase
	}

	err := dc.WithMetrics("ping", "health_check", func() error {
		return dc.db.PingContext(ctx)
	})
	if err != nil {
		dc.metrics.RecordDBConnectionError()
	}

	return err
}
