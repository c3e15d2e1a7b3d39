package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/galeria-app/galeria/internal/pkg/usercontext"
)

// UserContext builds the per-request user context from the identity headers
// set by the authenticating reverse proxy. Requests without headers stay
// anonymous; admin routes are additionally guarded by RequireAdmin.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := usercontext.UserContext{}

		if raw := c.Get("X-Auth-User-Id"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id > 0 {
				ctx.UserID = uint(id)
				ctx.Username = c.Get("X-Auth-User")
				ctx.IsLoggedIn = true
				ctx.IsAdmin = c.Get("X-Auth-Admin") == "true"
			}
		}

		c.Locals(usercontext.ContextKey, ctx)
		return c.Next()
	}
}

// RequireAdmin rejects requests that are not from an authenticated admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsAdmin(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "non autorisé"})
		}
		return c.Next()
	}
}
