package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Persona header names sent by the admin console and the marketplace front end.
const (
	HeaderPersonaRole = "X-Persona-Role"
	HeaderPersonaID   = "X-Persona-ID"
)

// Persona copies the caller's declared role and student id into locals. Values set by an earlier
// authentication middleware are never overwritten.
func Persona() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity{Role: normalizeRole(c.Get(HeaderPersonaRole))}
		if raw := strings.TrimSpace(c.Get(HeaderPersonaID)); raw != "" && c.Locals(LocalUserID) == nil {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid persona id")
			}
			identity.StudentID = uint(id)
		}
		setIdentity(c, identity)
		return c.Next()
	}
}
