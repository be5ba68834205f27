package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// AdminReportHandler serves the report queue and resolution endpoints.
type AdminReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewAdminReportHandler constructs the handler.
func NewAdminReportHandler(service service.ReportService, logger zerolog.Logger) *AdminReportHandler {
	return &AdminReportHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_report_handler").Logger(),
	}
}

// Register attaches report routes to the router group.
func (h *AdminReportHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id", h.resolve)
}

func (h *AdminReportHandler) list(c *fiber.Ctx) error {
	queue, err := h.service.ListOpen(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "list reports")
	}
	return utils.OK(c, queue.Items, "open reports retrieved", queue.Summary)
}

func (h *AdminReportHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "fetch report")
	}
	return utils.SendSuccess(c, "report retrieved", report)
}

func (h *AdminReportHandler) resolve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ResolveReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	report, err := h.service.Resolve(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "resolve report")
	}
	return utils.SendSuccess(c, "report resolved", report)
}
