package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// DiscountHandler usos de códigos promocionales y promociones por orden.
type DiscountHandler struct {
	uc  *ledger.DiscountUseCase
	log *logger.Logger
}

// NewDiscountHandler construye el handler.
func NewDiscountHandler(uc *ledger.DiscountUseCase, log *logger.Logger) *DiscountHandler {
	return &DiscountHandler{uc: uc, log: log}
}

// Apply POST /api/orders/:id/discounts
func (h *DiscountHandler) Apply(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyDiscountRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ApplyDiscount(c.Context(), restaurantID, param(c, "id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/orders/:id/discounts
func (h *DiscountHandler) List(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListDiscountUsages(c.Context(), restaurantID, param(c, "id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Revoke DELETE /api/orders/:id/discounts
func (h *DiscountHandler) Revoke(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.RevokeDiscounts(c.Context(), restaurantID, param(c, "id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
