package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// OwnerHeader carries the stable owner identifier issued by the identity
// provider collaborator. Authentication itself is out of scope; this
// middleware only validates the identifier's shape and pins it to the
// request so every write path below is owner-scoped.
const OwnerHeader = "X-Owner-ID"

const ownerLocal = "ownerID"

// NewOwnerAuth returns a middleware that requires a well-formed owner id on
// every request it guards.
func NewOwnerAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		owner, errMsg := ValidateOwnerID(c.Get(OwnerHeader))
		if errMsg != "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", errMsg)
		}
		c.Locals(ownerLocal, owner)
		return c.Next()
	}
}

// Owner returns the validated owner id pinned to the request.
func Owner(c fiber.Ctx) string {
	owner, _ := c.Locals(ownerLocal).(string)
	return owner
}
