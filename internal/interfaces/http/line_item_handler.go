package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// LineItemHandler cambios y bajas de líneas de cualquier tipo, y recálculo manual.
type LineItemHandler struct {
	lines  *ledger.LineItemUseCase
	recalc *ledger.RecalculateUseCase
	log    *logger.Logger
}

// NewLineItemHandler construye el handler.
func NewLineItemHandler(lines *ledger.LineItemUseCase, recalc *ledger.RecalculateUseCase, log *logger.Logger) *LineItemHandler {
	return &LineItemHandler{lines: lines, recalc: recalc, log: log}
}

// Update PATCH /api/line-items/:kind/:id
func (h *LineItemHandler) Update(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateLineItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.lines.UpdateLineItem(c.Context(), restaurantID, entity.LineKind(param(c, "kind")), param(c, "id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/line-items/:kind/:id
func (h *LineItemHandler) Delete(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	out, err := h.lines.DeleteLineItem(c.Context(), restaurantID, entity.LineKind(param(c, "kind")), param(c, "id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recalculate POST /api/aggregates/:kind/:id/recalculate
func (h *LineItemHandler) Recalculate(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	ref := entity.AggregateRef{Kind: entity.AggregateKind(param(c, "kind")), ID: param(c, "id")}
	total, err := h.recalc.Recalculate(c.Context(), restaurantID, ref)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RecalculateResponse{Kind: string(ref.Kind), ID: ref.ID, Total: total})
}
