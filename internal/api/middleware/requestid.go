package middleware

import (
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Behyna/sms-services/messagegateway/internal/api/respond"
	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

const maxRequestIDLength = 128

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID returns a ULID string.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// RequestID reuses a caller supplied X-Request-ID when it is usable and
// generates one otherwise.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get(respond.HeaderRequestID))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = NewRequestID()
		}

		respond.SetRequestID(c, requestID)

		return c.Next()
	}
}
