package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// ListingHandler wires listing, availability and category endpoints.
type ListingHandler struct {
	listings service.ListingService
	reviews  service.ReviewService
	logger   zerolog.Logger
}

// NewListingHandler constructs the handler.
func NewListingHandler(listings service.ListingService, reviews service.ReviewService, logger zerolog.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		reviews:  reviews,
		logger:   logger.With().Str("component", "listing_handler").Logger(),
	}
}

// Register wires the listing routes. guard runs in front of every route that changes state.
func (h *ListingHandler) Register(router fiber.Router, guard fiber.Handler) {
	guard = passthrough(guard)

	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/availability", h.listAvailability)
	router.Get("/:id/reviews", h.listReviews)

	router.Post("", guard, h.create)
	router.Put("/:id", guard, h.update)
	router.Delete("/:id", guard, h.remove)
	router.Post("/:id/availability", guard, h.addAvailability)
	router.Put("/:id/availability/:slotId", guard, h.updateAvailability)
	router.Delete("/:id/availability/:slotId", guard, h.deleteAvailability)
}

// Categories returns the category catalogue.
func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.listings.Categories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "list categories")
	}
	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *ListingHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	categoryID, err := parseQueryUint(c, "categoryId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid category id")
	}
	providerID, err := parseQueryUint(c, "providerId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid provider id")
	}

	response, err := h.listings.List(c.UserContext(), dto.ListingListRequest{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		CategoryID:  categoryID,
		ProviderID:  providerID,
		Search:      c.Query("search"),
		CreatedFrom: c.Query("createdFrom"),
		CreatedTo:   c.Query("createdTo"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "list listings")
	}
	return utils.SendSuccess(c, "listings retrieved", response)
}

func (h *ListingHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "fetch listing")
	}
	return utils.SendSuccess(c, "listing retrieved", listing)
}

func (h *ListingHandler) create(c *fiber.Ctx) error {
	var payload dto.ListingCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	listing, err := h.listings.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "create listing")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "listing created", listing)
}

func (h *ListingHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ListingUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	listing, err := h.listings.Update(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "update listing")
	}
	return utils.SendSuccess(c, "listing updated", listing)
}

func (h *ListingHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	listing, err := h.listings.Remove(c.UserContext(), id, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "remove listing")
	}
	return utils.SendSuccess(c, "listing removed", listing)
}

func (h *ListingHandler) listAvailability(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	slots, err := h.listings.ListAvailability(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "list availability")
	}
	return utils.SendSuccess(c, "availability retrieved", slots)
}

func (h *ListingHandler) addAvailability(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AvailabilityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	slots, err := h.listings.AddAvailability(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "add availability")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "availability added", slots)
}

func (h *ListingHandler) updateAvailability(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	slotID, err := parseUintParam(c, "slotId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AvailabilitySlotRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	slots, err := h.listings.UpdateAvailability(c.UserContext(), id, slotID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "update availability")
	}
	return utils.SendSuccess(c, "availability updated", slots)
}

func (h *ListingHandler) deleteAvailability(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	slotID, err := parseUintParam(c, "slotId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.listings.DeleteAvailability(c.UserContext(), id, slotID); err != nil {
		return respondError(c, h.logger, err, "delete availability")
	}
	return utils.SendSuccess(c, "availability deleted", nil)
}

func (h *ListingHandler) listReviews(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reviews, err := h.reviews.ListByListing(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "list reviews")
	}
	return utils.SendSuccess(c, "reviews retrieved", reviews)
}
