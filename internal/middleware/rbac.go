package middleware

import (
	"github.com/gofiber/fiber/v2"

	"campus-volunteer/internal/domain"
)

// RequireRole admits users holding role or a role above it. Problem triage
// needs admin, participation review needs organizer.
func RequireRole(role domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return Unauthorized("User not found")
		}

		if !user.HasRole(role) {
			return Forbidden("This operation requires the " + string(role) + " role")
		}

		return c.Next()
	}
}
