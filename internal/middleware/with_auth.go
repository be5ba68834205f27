package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// AuthRoleAny admits any persona, or anonymous callers unless RequireUser is set.
const AuthRoleAny = "any"

// AuthOptions configures WithAuth.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth guards a single route handler. A concrete role always requires a persona with a
// student id, so marketplace writes can be attributed in the activity trail.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := normalizeRole(opts.Role)
	if role == "" {
		role = AuthRoleAny
	}
	requireUser := opts.RequireUser || role != AuthRoleAny

	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		if requireUser && identity.StudentID == 0 {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		if role != AuthRoleAny && !identity.Satisfies(role) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}
		return handler(c)
	}
}
