package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/middleware"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// AdminModerationHandler serves the dashboard summary and the live moderation feed.
type AdminModerationHandler struct {
	summary service.ModerationSummaryService
	hub     *events.Hub
	logger  zerolog.Logger
}

// NewAdminModerationHandler constructs the handler. A nil hub disables the feed route.
func NewAdminModerationHandler(summary service.ModerationSummaryService, hub *events.Hub, logger zerolog.Logger) *AdminModerationHandler {
	return &AdminModerationHandler{
		summary: summary,
		hub:     hub,
		logger:  logger.With().Str("component", "admin_moderation_handler").Logger(),
	}
}

// Register binds moderation routes under the provided router group.
func (h *AdminModerationHandler) Register(router fiber.Router) {
	router.Get("/summary", h.getSummary)
	if h.hub == nil {
		return
	}

	router.Use("/feed", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/feed", websocket.New(h.feed))
}

func (h *AdminModerationHandler) getSummary(c *fiber.Ctx) error {
	summary, err := h.summary.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "load moderation summary")
	}

	c.Set("X-Cache-Hit", strconv.FormatBool(summary.CacheHit))
	return utils.SendSuccess(c, "moderation summary", summary)
}

// feed streams moderation events until the client disconnects. Inbound frames are read only
// to notice the close.
func (h *AdminModerationHandler) feed(conn *websocket.Conn) {
	stream, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Info().Msg("moderation feed connected")
	defer h.logger.Info().Msg("moderation feed disconnected")

	for {
		select {
		case <-closed:
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug().Err(err).Msg("moderation feed write failed")
				return
			}
		}
	}
}
