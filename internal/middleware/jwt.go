package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// PersonaClaims is the bearer token payload: the same student id and role the persona headers
// carry. stuId may be a number or a numeric string; sub is used when stuId is absent.
type PersonaClaims struct {
	StudentID interface{} `json:"stuId,omitempty"`
	Role      string      `json:"role"`
	jwt.RegisteredClaims
}

var errNoStudentID = errors.New("token carries no student id")

// PersonaJWT validates HMAC bearer tokens and maps their persona onto the identity locals that
// Persona would otherwise set.
func PersonaJWT(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		scheme, tokenString, ok := strings.Cut(authorization, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		var claims PersonaClaims
		if _, err := parser.ParseWithClaims(strings.TrimSpace(tokenString), &claims, keyFunc); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		identity, err := claims.identity()
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}
		setIdentity(c, identity)

		return c.Next()
	}
}

func (p PersonaClaims) identity() (Identity, error) {
	role := normalizeRole(p.Role)
	if role != RoleAdmin && role != RoleStudent {
		return Identity{}, errors.New("unknown persona role")
	}

	id, err := studentIDFromClaim(p.StudentID)
	if errors.Is(err, errNoStudentID) && p.Subject != "" {
		id, err = studentIDFromClaim(p.Subject)
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{StudentID: id, Role: role}, nil
}

func studentIDFromClaim(value interface{}) (uint, error) {
	switch v := value.(type) {
	case nil:
		return 0, errNoStudentID
	case float64:
		if v < 1 || v != float64(uint(v)) {
			return 0, errors.New("invalid student id")
		}
		return uint(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, errNoStudentID
		}
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || parsed == 0 {
			return 0, errors.New("invalid student id")
		}
		return uint(parsed), nil
	default:
		return 0, errors.New("invalid student id")
	}
}
