package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader is the header used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the Fiber locals key holding the request ID.
	RequestIDLocalKey = "request_id"
	// RouteUnmatchedLocalKey is set by the fallback handler when no route matched.
	RouteUnmatchedLocalKey = "route_unmatched"
)

// RequestID reads X-Request-ID from the request, or generates a UUID when absent,
// stores it in locals and echoes it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

// RequestIDFromCtx returns the request ID stored by RequestID, or "".
func RequestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// RequestLogger returns base enriched with the current request ID.
func RequestLogger(c *fiber.Ctx, base zerolog.Logger) zerolog.Logger {
	if rid := RequestIDFromCtx(c); rid != "" {
		return base.With().Str("request_id", rid).Logger()
	}
	return base
}

func unmatched(c *fiber.Ctx) bool {
	v, _ := c.Locals(RouteUnmatchedLocalKey).(bool)
	return v
}

// statusOf returns the status the client will see. A returned error has not
// been rendered yet, so its status comes from the error itself.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
