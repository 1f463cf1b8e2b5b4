package rayid

import (
	"binserve/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the ray id.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a ray id, stores it in
// the context locals and echoes it in the response headers.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(logger.RayIDKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// Get returns the ray id of the current request, or "".
func Get(c *fiber.Ctx) string {
	if id, ok := c.Locals(logger.RayIDKey).(string); ok {
		return id
	}
	return ""
}
