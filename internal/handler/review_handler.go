package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// ReviewHandler wires review endpoints.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "review_handler").Logger(),
	}
}

// Register wires the review routes. guard runs in front of every route that changes state.
func (h *ReviewHandler) Register(router fiber.Router, guard fiber.Handler) {
	guard = passthrough(guard)

	router.Get("", h.listByProvider)
	router.Post("", guard, h.create)
}

func (h *ReviewHandler) listByProvider(c *fiber.Ctx) error {
	providerID, err := parseQueryUint(c, "providerId")
	if err != nil || providerID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "providerId required")
	}

	reviews, err := h.service.ListByProvider(c.UserContext(), providerID)
	if err != nil {
		return respondError(c, h.logger, err, "list reviews")
	}
	return utils.SendSuccess(c, "reviews retrieved", reviews)
}

func (h *ReviewHandler) create(c *fiber.Ctx) error {
	var payload dto.ReviewCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	review, err := h.service.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "create review")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review created", review)
}
