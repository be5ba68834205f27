package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// StudentHandler serves student profiles and provider metrics.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the student routes. guard runs in front of every route that changes state.
func (h *StudentHandler) Register(router fiber.Router, guard fiber.Handler) {
	guard = passthrough(guard)

	router.Get("", h.list)
	router.Get("/provider/metrics", h.providerLeaderboard)
	router.Get("/consumer/metrics", h.consumerMetrics)
	router.Get("/new-user-metrics", h.newUserMetrics)
	router.Get("/:id", h.get)
	router.Get("/:id/metrics", h.metrics)
	router.Get("/:id/ratings", h.ratings)

	router.Put("/:id", guard, h.update)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.List(c.UserContext(), dto.StudentListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Campus:   c.Query("campus"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "list students")
	}
	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "fetch student")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "update student")
	}
	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) metrics(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	metrics, err := h.service.Metrics(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "load provider metrics")
	}
	return utils.SendSuccess(c, "provider metrics", metrics)
}

func (h *StudentHandler) providerLeaderboard(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "limit must be a number")
		}
		limit = parsed
	}

	standings, err := h.service.ProviderLeaderboard(c.UserContext(), dto.ProviderLeaderboardRequest{
		SortBy: c.Query("sortBy"),
		Limit:  limit,
	})
	if err != nil {
		return respondError(c, h.logger, err, "load provider leaderboard")
	}
	return utils.SendSuccess(c, "provider metrics", standings)
}

func (h *StudentHandler) consumerMetrics(c *fiber.Ctx) error {
	standings, err := h.service.ConsumerMetrics(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "load consumer metrics")
	}
	return utils.SendSuccess(c, "consumer metrics", standings)
}

func (h *StudentHandler) newUserMetrics(c *fiber.Ctx) error {
	metrics, err := h.service.NewUserMetrics(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "load new user metrics")
	}
	return utils.SendSuccess(c, "new user metrics", metrics)
}

func (h *StudentHandler) ratings(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ratings, err := h.service.Ratings(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "load student ratings")
	}
	return utils.SendSuccess(c, "student ratings", ratings)
}
