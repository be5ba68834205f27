package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// AdminSuspensionHandler wires the suspension lifecycle endpoints.
type AdminSuspensionHandler struct {
	service service.SuspensionService
	logger  zerolog.Logger
}

// NewAdminSuspensionHandler constructs the handler.
func NewAdminSuspensionHandler(service service.SuspensionService, logger zerolog.Logger) *AdminSuspensionHandler {
	return &AdminSuspensionHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_suspension_handler").Logger(),
	}
}

// Register attaches suspension routes to the router group.
func (h *AdminSuspensionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.lift)
}

func (h *AdminSuspensionHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	response, err := h.service.List(c.UserContext(), dto.SuspensionListRequest{
		Page:      page,
		PageSize:  pageSize,
		StudentID: studentID,
		Status:    c.Query("status"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "list suspensions")
	}
	return utils.SendSuccess(c, "suspensions retrieved", response)
}

func (h *AdminSuspensionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	suspension, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "fetch suspension")
	}
	return utils.SendSuccess(c, "suspension retrieved", suspension)
}

func (h *AdminSuspensionHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateSuspensionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "create suspension")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student suspended", created)
}

func (h *AdminSuspensionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UpdateSuspensionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "update suspension")
	}
	return utils.SendSuccess(c, "suspension updated", updated)
}

func (h *AdminSuspensionHandler) lift(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lifted, err := h.service.Lift(c.UserContext(), id, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "lift suspension")
	}

	message := "suspension lifted"
	if !lifted.Reactivated && lifted.RemainingActive > 0 {
		message = "suspension lifted; student remains suspended"
	}
	return utils.SendSuccess(c, message, lifted)
}
