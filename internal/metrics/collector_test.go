package metrics_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePinger struct {
	err   error
	stats sql.DBStats
}

func (f *fakePinger) PingContext(ctx context.Context) error { return f.err }
func (f *fakePinger) Stats() sql.DBStats                    { return f.stats }

func TestDatabaseCollector_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		dc := metrics.NewDatabaseCollector(m, zap.NewNop(), &fakePinger{})

		assert.NoError(t, dc.HealthCheck(context.Background()))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("ping", "health_check", "success")))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.DBConnectionErrors))
	})

	t.Run("ping failure", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		pingErr := errors.New("connection refused")
		dc := metrics.NewDatabaseCollector(m, zap.NewNop(), &fakePinger{err: pingErr})

		assert.ErrorIs(t, dc.HealthCheck(context.Background()), pingErr)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("ping", "health_check", "error")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.DBConnectionErrors))
	})

	t.Run("no database", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		dc := metrics.NewDatabaseCollector(m, zap.NewNop(), nil)

		assert.ErrorIs(t, dc.HealthCheck(context.Background()), metrics.ErrNoDatabase)
	})
}

func TestDatabaseCollector_StartStop(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	dc := metrics.NewDatabaseCollector(m, zap.NewNop(), &fakePinger{stats: sql.DBStats{InUse: 3, Idle: 2}})

	dc.Start(time.Minute)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.DBConnectionsInUse) == 3
	}, time.Second, 10*time.Millisecond)
	dc.Stop()
	dc.Stop()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBConnectionsIdle))
}

func TestMetrics_RecordEnvelope(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.RecordEnvelope("http", "error", "NOT_FOUND")
	m.RecordEnvelope("http", "error", "NOT_FOUND")
	m.RecordEnvelope("rpc", "success", "")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EnvelopesTotal.WithLabelValues("http", "error", "NOT_FOUND")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EnvelopesTotal.WithLabelValues("rpc", "success", "")))
}
