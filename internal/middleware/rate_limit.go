package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// RateLimit throttles marketplace writes per persona. Each student id gets its own bucket inside
// scope; callers without a persona id share a bucket per client IP.
func RateLimit(scope string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 30
	}
	if window <= 0 {
		window = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return rateLimitKey(scope, CurrentIdentity(c), c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "too many requests", nil)
		},
	})
}

func rateLimitKey(scope string, identity Identity, ip string) string {
	if identity.StudentID == 0 {
		return fmt.Sprintf("%s:ip:%s", scope, ip)
	}
	return fmt.Sprintf("%s:student:%d", scope, identity.StudentID)
}
