package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// StatusHandler historial de estados de órdenes. El actor es el usuario del token.
type StatusHandler struct {
	uc  *ledger.StatusLedgerUseCase
	log *logger.Logger
}

// NewStatusHandler construye el handler.
func NewStatusHandler(uc *ledger.StatusLedgerUseCase, log *logger.Logger) *StatusHandler {
	return &StatusHandler{uc: uc, log: log}
}

// Transition POST /api/orders/:id/status
func (h *StatusHandler) Transition(c *fiber.Ctx) error {
	restaurantID, userID := GetRestaurantID(c), GetUserID(c)
	if restaurantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.TransitionRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Transition(c.Context(), restaurantID, param(c, "id"), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current GET /api/orders/:id/status
func (h *StatusHandler) Current(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.CurrentStatus(c.Context(), restaurantID, param(c, "id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History GET /api/orders/:id/status/history
func (h *StatusHandler) History(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.History(c.Context(), restaurantID, param(c, "id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}
