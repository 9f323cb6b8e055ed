package middleware

import (
	"sync"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/Behyna/sms-services/messagegateway/internal/config"
	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL = 3 * time.Minute
	sweepEvery     = 1024
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	calls    int
}

func NewRateLimiter(cfg config.RateLimit) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RPS),
		burst:    burst,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.calls++
	if rl.calls%sweepEvery == 0 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(rl.visitors, k)
			}
		}
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) Handler(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.Allow(c.IP()) {
			return c.Next()
		}

		m.RecordRateLimited()
		c.Set(fiber.HeaderRetryAfter, "1")

		return contract.FromCode(constants.ErrCodeRateLimited, respond.RequestID(c))
	}
}
