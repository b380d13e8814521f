package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both request and response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the ID is stored in Fiber context locals,
	// read back by the logger and the error envelope.
	RequestIDLocalKey = "request_id"
)

// RequestID propagates the caller's X-Request-ID, generating a UUID when
// the header is absent. The ID ends up in three places: context locals,
// the response header, and every log line and error body for the request.
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
