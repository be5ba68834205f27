package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/dto"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

// TransactionHandler wires booking endpoints.
type TransactionHandler struct {
	service service.TransactionService
	logger  zerolog.Logger
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(service service.TransactionService, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  logger.With().Str("component", "transaction_handler").Logger(),
	}
}

// Register wires the booking routes. guard runs in front of every route that changes state.
func (h *TransactionHandler) Register(router fiber.Router, guard fiber.Handler) {
	guard = passthrough(guard)

	router.Get("", h.list)
	router.Get("/:id", h.get)

	router.Post("", guard, h.create)
	router.Put("/:id", guard, h.updateStatus)
	router.Delete("/:id", guard, h.cancel)
}

func (h *TransactionHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := pagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	buyerID, err := parseQueryUint(c, "buyerId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid buyer id")
	}
	providerID, err := parseQueryUint(c, "providerId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid provider id")
	}

	response, err := h.service.List(c.UserContext(), dto.TransactionListRequest{
		Page:       page,
		PageSize:   pageSize,
		BuyerID:    buyerID,
		ProviderID: providerID,
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "list transactions")
	}
	return utils.SendSuccess(c, "transactions retrieved", response)
}

func (h *TransactionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	transaction, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "fetch transaction")
	}
	return utils.SendSuccess(c, "transaction retrieved", transaction)
}

func (h *TransactionHandler) create(c *fiber.Ctx) error {
	var payload dto.TransactionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	transaction, err := h.service.Create(c.UserContext(), payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "book listing")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "booking requested", transaction)
}

func (h *TransactionHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TransactionStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	transaction, err := h.service.UpdateStatus(c.UserContext(), id, payload, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "update transaction")
	}
	return utils.SendSuccess(c, "transaction updated", transaction)
}

func (h *TransactionHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	transaction, err := h.service.Cancel(c.UserContext(), id, activityActorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "cancel transaction")
	}
	return utils.SendSuccess(c, "transaction cancelled", transaction)
}
