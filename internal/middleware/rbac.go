package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// RequireRole admits callers whose persona satisfies one of the roles. A student persona never
// reaches the moderation console.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed = append(allowed, normalized)
		}
	}
	message := "insufficient permissions: requires " + strings.Join(allowed, " or ") + " persona"

	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		for _, role := range allowed {
			if identity.Satisfies(role) {
				return c.Next()
			}
		}
		return utils.SendError(c, fiber.StatusForbidden, message)
	}
}
