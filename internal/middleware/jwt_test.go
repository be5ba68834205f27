package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/arsverma5/huskyhub-api/internal/middleware"
)

const tokenSecret = "huskyhub-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func tokenApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.PersonaJWT(tokenSecret))
	app.Get("/api/v1/whoami", func(c *fiber.Ctx) error {
		identity := middleware.CurrentIdentity(c)
		return c.JSON(fiber.Map{"stuId": identity.StudentID, "role": identity.Role})
	})
	app.Get("/api/admin/suspensions", middleware.RequireRole(middleware.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func callWithToken(t *testing.T, app *fiber.App, path, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeIdentity(t *testing.T, resp *http.Response) (uint, string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		StudentID uint   `json:"stuId"`
		Role      string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.StudentID, body.Role
}

func TestPersonaJWTMapsStudentClaim(t *testing.T) {
	app := tokenApp()

	numeric := signToken(t, tokenSecret, jwt.MapClaims{"stuId": 42, "role": "student"})
	resp := callWithToken(t, app, "/api/v1/whoami", "Bearer "+numeric)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	id, role := decodeIdentity(t, resp)
	require.Equal(t, uint(42), id)
	require.Equal(t, middleware.RoleStudent, role)

	text := signToken(t, tokenSecret, jwt.MapClaims{"stuId": "7", "role": "Student"})
	resp = callWithToken(t, app, "/api/v1/whoami", "bearer "+text)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	id, _ = decodeIdentity(t, resp)
	require.Equal(t, uint(7), id)
}

func TestPersonaJWTFallsBackToSubject(t *testing.T) {
	token := signToken(t, tokenSecret, jwt.MapClaims{"sub": "13", "role": "admin"})

	resp := callWithToken(t, tokenApp(), "/api/v1/whoami", "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	id, role := decodeIdentity(t, resp)
	require.Equal(t, uint(13), id)
	require.Equal(t, middleware.RoleAdmin, role)
}

func TestPersonaJWTGuardsModerationConsole(t *testing.T) {
	app := tokenApp()

	admin := signToken(t, tokenSecret, jwt.MapClaims{"stuId": 1, "role": "admin"})
	resp := callWithToken(t, app, "/api/admin/suspensions", "Bearer "+admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	student := signToken(t, tokenSecret, jwt.MapClaims{"stuId": 42, "role": "student"})
	resp = callWithToken(t, app, "/api/admin/suspensions", "Bearer "+student)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestPersonaJWTRejectsBadTokens(t *testing.T) {
	app := tokenApp()
	expired := jwt.MapClaims{"stuId": 42, "role": "student", "exp": time.Now().Add(-time.Hour).Unix()}

	cases := map[string]string{
		"missing header":   "",
		"wrong scheme":     "Basic " + signToken(t, tokenSecret, jwt.MapClaims{"stuId": 42, "role": "student"}),
		"wrong secret":     "Bearer " + signToken(t, "other-secret", jwt.MapClaims{"stuId": 42, "role": "student"}),
		"expired":          "Bearer " + signToken(t, tokenSecret, expired),
		"unknown role":     "Bearer " + signToken(t, tokenSecret, jwt.MapClaims{"stuId": 42, "role": "guest"}),
		"no student id":    "Bearer " + signToken(t, tokenSecret, jwt.MapClaims{"role": "student"}),
		"fractional id":    "Bearer " + signToken(t, tokenSecret, jwt.MapClaims{"stuId": 4.5, "role": "student"}),
		"non numeric id":   "Bearer " + signToken(t, tokenSecret, jwt.MapClaims{"stuId": "abc", "role": "student"}),
		"malformed bearer": "Bearer not.a.token",
	}

	for name, authorization := range cases {
		t.Run(name, func(t *testing.T) {
			resp := callWithToken(t, app, "/api/v1/whoami", authorization)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}
