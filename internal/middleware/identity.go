package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys written by Persona and PersonaJWT and read by handlers.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

// Marketplace personas. An admin may act anywhere a student may.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Identity is the caller resolved from persona headers or a bearer token.
type Identity struct {
	StudentID uint
	Role      string
}

// Satisfies reports whether the identity may act in the wanted role.
func (i Identity) Satisfies(role string) bool {
	switch role {
	case RoleAdmin:
		return i.Role == RoleAdmin
	case RoleStudent:
		return i.Role == RoleStudent || i.Role == RoleAdmin
	default:
		return role != "" && i.Role == role
	}
}

// CurrentIdentity reads the identity locals of the request.
func CurrentIdentity(c *fiber.Ctx) Identity {
	identity := Identity{Role: normalizeRole(c.Locals(LocalUserRole))}
	switch id := c.Locals(LocalUserID).(type) {
	case uint:
		identity.StudentID = id
	case uint64:
		identity.StudentID = uint(id)
	case int:
		if id > 0 {
			identity.StudentID = uint(id)
		}
	}
	return identity
}

// setIdentity fills whichever identity locals are still empty.
func setIdentity(c *fiber.Ctx, identity Identity) {
	if identity.Role != "" && c.Locals(LocalUserRole) == nil {
		c.Locals(LocalUserRole, identity.Role)
	}
	if identity.StudentID != 0 && c.Locals(LocalUserID) == nil {
		c.Locals(LocalUserID, identity.StudentID)
	}
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
	}
}
