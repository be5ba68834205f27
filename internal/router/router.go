package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arsverma5/huskyhub-api/internal/config"
	"github.com/arsverma5/huskyhub-api/internal/handler"
	"github.com/arsverma5/huskyhub-api/internal/middleware"
	"github.com/arsverma5/huskyhub-api/internal/observability"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DB                 *gorm.DB
	ReportHandler      *handler.AdminReportHandler
	SuspensionHandler  *handler.AdminSuspensionHandler
	ModerationHandler  *handler.AdminModerationHandler
	ActivityHandler    *handler.AdminActivityHandler
	StudentHandler     *handler.StudentHandler
	ListingHandler     *handler.ListingHandler
	TransactionHandler *handler.TransactionHandler
	ReviewHandler      *handler.ReviewHandler
	// JWTMiddleware replaces persona headers when set.
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	identity := deps.JWTMiddleware
	if identity == nil {
		identity = middleware.Persona()
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	admin := app.Group("/api/admin", identity, middleware.RequireRole(middleware.RoleAdmin))
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(admin.Group("/reports"))
	}
	if deps.SuspensionHandler != nil {
		deps.SuspensionHandler.Register(admin.Group("/suspensions"))
	}
	if deps.ModerationHandler != nil {
		deps.ModerationHandler.Register(admin.Group("/moderation"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}

	public := api.Group("", identity)
	// Writes need a student or admin persona and share one rate limit bucket per caller.
	guard := middleware.WithAuth(
		middleware.RateLimit("marketplace", cfg.RateLimitMax, cfg.RateLimitWindow),
		middleware.AuthOptions{Role: middleware.RoleStudent},
	)

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(public.Group("/students"), guard)
	}
	if deps.ListingHandler != nil {
		public.Get("/categories", deps.ListingHandler.Categories)
		deps.ListingHandler.Register(public.Group("/listings"), guard)
	}
	if deps.TransactionHandler != nil {
		deps.TransactionHandler.Register(public.Group("/transactions"), guard)
	}
	if deps.ReviewHandler != nil {
		deps.ReviewHandler.Register(public.Group("/reviews"), guard)
	}
}

// ErrorHandler renders errors that escape handlers in the standard response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return utils.SendError(c, status, message)
}
