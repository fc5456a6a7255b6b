package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const HeaderInternalToken = "X-Internal-Token"

// InternalTokenMiddleware guards endpoints meant for the collector process.
// An empty configured token rejects every request.
type InternalTokenMiddleware struct {
	token string
}

func NewInternalTokenMiddleware(token string) *InternalTokenMiddleware {
	return &InternalTokenMiddleware{token: strings.TrimSpace(token)}
}

func (m *InternalTokenMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		tok := strings.TrimSpace(c.Get(HeaderInternalToken))
		if m == nil || m.token == "" || tok == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if subtle.ConstantTimeCompare([]byte(tok), []byte(m.token)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.Next()
	}
}
