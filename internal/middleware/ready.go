package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lgadza/mn-school-db-v2-sub003/internal/services"
	"github.com/lgadza/mn-school-db-v2-sub003/internal/utils"
)

// SchemaReady answers 503 until schema bootstrap has produced a result. A failed
// bootstrap still passes so its report can be read.
func SchemaReady(status *services.SchemaStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := status.State()
		if state == services.SchemaStarting {
			return utils.UnavailableResponse(c, state)
		}

		// Store state in context
		c.Locals("schemaState", state)

		return c.Next()
	}
}
