package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Behyna/sms-services/messagegateway/internal/api/middleware"
	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/idempotency"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/Behyna/sms-services/messagegateway/internal/mocks"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Use(middleware.RequestID())
	app.Get("/service", func(c *fiber.Ctx) error {
		return service.NewServiceError(constants.ErrCodeMessageNotFound, service.ErrMessageNotFound)
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return service.NewServiceError(service.ErrCodeDatabase, errors.New("deadlock"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"service error", "/service", fiber.StatusNotFound, constants.ErrCodeMessageNotFound},
		{"internal code is hidden", "/internal", fiber.StatusInternalServerError, constants.ErrCodeInternalError},
		{"plain error", "/plain", fiber.StatusInternalServerError, constants.ErrCodeInternalError},
		{"unknown route", "/missing", fiber.StatusNotFound, constants.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			req.Header.Set(respond.HeaderRequestID, "req-1")

			resp, body := do(t, app, req)

			assert.Equal(t, tt.status, resp.StatusCode)
			env, err := envelope.DecodeError(body)
			require.NoError(t, err)
			assert.Equal(t, tt.code, env.Err.Code)
			assert.Equal(t, tt.status, env.Err.StatusCode)
			require.NotNil(t, env.Err.RequestID)
			assert.Equal(t, "req-1", *env.Err.RequestID)
			assert.NotContains(t, string(body), "deadlock")
		})
	}
}

func TestRequestID(t *testing.T) {
	app := newApp()
	app.Use(middleware.RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return respond.Empty(c, "ok")
	})

	t.Run("inbound header is kept", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(respond.HeaderRequestID, "abc")

		resp, body := do(t, app, req)

		assert.Equal(t, "abc", resp.Header.Get(respond.HeaderRequestID))
		env, err := envelope.DecodeEmpty(body)
		require.NoError(t, err)
		assert.Equal(t, "abc", *env.RequestID)
	})

	t.Run("generated when missing", func(t *testing.T) {
		resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil))

		requestID := resp.Header.Get(respond.HeaderRequestID)
		assert.Len(t, requestID, 26)
		env, err := envelope.DecodeEmpty(body)
		require.NoError(t, err)
		assert.Equal(t, requestID, *env.RequestID)
	})
}

func TestNewRequestID_Monotonic(t *testing.T) {
	prev := middleware.NewRequestID()
	for i := 0; i < 100; i++ {
		next := middleware.NewRequestID()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestRateLimiter(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	limiter := middleware.NewRateLimiter(config.RateLimit{RPS: 0.001, Burst: 1})

	app := newApp()
	app.Use(limiter.Handler(m))
	app.Get("/", func(c *fiber.Ctx) error {
		return respond.Empty(c, "ok")
	})

	resp, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))

	env, err := envelope.DecodeError(body)
	require.NoError(t, err)
	assert.Equal(t, constants.ErrCodeRateLimited, env.Err.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedRequests))
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := middleware.NewRateLimiter(config.RateLimit{})

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
}

func TestHTTPMetrics(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	app := newApp()
	app.Use(middleware.HTTPMetrics(m, zap.NewNop()))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return respond.Success(c, fiber.StatusOK, 1)
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/text", func(c *fiber.Ctx) error {
		return c.SendString("plain")
	})

	do(t, app, httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	do(t, app, httptest.NewRequest(fiber.MethodGet, "/raw", nil))
	do(t, app, httptest.NewRequest(fiber.MethodGet, "/text", nil))
	resp, _ := do(t, app, httptest.NewRequest(fiber.MethodGet, "/missing", nil))

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnvelopesTotal.WithLabelValues("http", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnvelopesTotal.WithLabelValues("http", "error", constants.ErrCodeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MalformedResponses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(fiber.MethodGet, "/ok", "200")))
}

func TestIdempotency(t *testing.T) {
	const storeKey = "POST:/messages:key-1"

	post := func() *http.Request {
		req := httptest.NewRequest(fiber.MethodPost, "/messages", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		return req
	}

	t.Run("first request is stored then replayed", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		store := &mocks.IdempotencyStore{}
		calls := 0

		app := newApp()
		app.Post("/messages", middleware.Idempotency(store, zap.NewNop(), m), func(c *fiber.Ctx) error {
			calls++
			return respond.Success(c, fiber.StatusCreated, calls)
		})

		var saved idempotency.Record
		store.On("Reserve", mock.Anything, storeKey).Return(idempotency.Record{}, true, nil).Once()
		store.On("Complete", mock.Anything, storeKey, mock.AnythingOfType("idempotency.Record")).
			Run(func(args mock.Arguments) { saved = args.Get(2).(idempotency.Record) }).
			Return(nil).Once()

		resp, first := do(t, app, post())
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, fiber.StatusCreated, saved.Status)
		assert.Equal(t, first, saved.Body)

		store.On("Reserve", mock.Anything, storeKey).Return(saved, false, nil).Once()

		resp, second := do(t, app, post())

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "true", resp.Header.Get(middleware.HeaderReplayed))
		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.IdempotentReplays))
		store.AssertExpectations(t)
	})

	t.Run("concurrent duplicate is rejected while the first runs", func(t *testing.T) {
		store := &mocks.IdempotencyStore{}
		calls := 0

		app := newApp()
		app.Use(middleware.RequestID())
		app.Post("/messages", middleware.Idempotency(store, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry())), func(c *fiber.Ctx) error {
			calls++
			return respond.Success(c, fiber.StatusCreated, calls)
		})

		store.On("Reserve", mock.Anything, storeKey).Return(idempotency.Record{}, false, idempotency.ErrInProgress).Once()

		resp, body := do(t, app, post())

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
		env, err := envelope.DecodeError(body)
		require.NoError(t, err)
		assert.Equal(t, constants.ErrCodeRequestInProgress, env.Err.Code)
		assert.NotNil(t, env.Err.RequestID)
		assert.Zero(t, calls)
		store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("server faults release the key", func(t *testing.T) {
		store := &mocks.IdempotencyStore{}
		app := newApp()
		app.Post("/messages", middleware.Idempotency(store, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry())), func(c *fiber.Ctx) error {
			return errors.New("db down")
		})

		store.On("Reserve", mock.Anything, storeKey).Return(idempotency.Record{}, true, nil).Once()
		store.On("Release", mock.Anything, storeKey).Return(nil).Once()

		resp, _ := do(t, app, post())

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store outage runs the handler", func(t *testing.T) {
		store := &mocks.IdempotencyStore{}
		app := newApp()
		app.Post("/messages", middleware.Idempotency(store, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry())), func(c *fiber.Ctx) error {
			return respond.Empty(c, "ok")
		})

		store.On("Reserve", mock.Anything, storeKey).Return(idempotency.Record{}, false, errors.New("connection refused")).Once()

		resp, _ := do(t, app, post())

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		store.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no key skips the store", func(t *testing.T) {
		store := &mocks.IdempotencyStore{}
		app := newApp()
		app.Post("/messages", middleware.Idempotency(store, zap.NewNop(), metrics.NewMetrics(prometheus.NewRegistry())), func(c *fiber.Ctx) error {
			return respond.Empty(c, "ok")
		})

		resp, _ := do(t, app, httptest.NewRequest(fiber.MethodPost, "/messages", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) HealthCheck(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newApp()
		app.Use(middleware.HealthCheck("messagegateway", fakeChecker{}))

		resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/health", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		env, err := envelope.DecodeSuccess[middleware.HealthStatus](body)
		require.NoError(t, err)
		assert.Equal(t, middleware.HealthStatus{Status: constants.StatusHealthy, Service: "messagegateway"}, env.Data)
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := newApp()
		app.Use(middleware.HealthCheck("messagegateway", fakeChecker{err: errors.New("ping failed")}))

		resp, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/health", nil))

		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
		env, err := envelope.DecodeError(body)
		require.NoError(t, err)
		assert.Equal(t, constants.ErrCodeUnavailable, env.Err.Code)
		assert.Equal(t, constants.StatusUnhealthy, env.Err.Context["status"])
	})
}
