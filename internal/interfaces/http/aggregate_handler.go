package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// AggregateHandler facturas, órdenes y órdenes de domicilio con sus líneas (protegido).
type AggregateHandler struct {
	aggregates *ledger.AggregateUseCase
	lines      *ledger.LineItemUseCase
	log        *logger.Logger
}

// NewAggregateHandler construye el handler.
func NewAggregateHandler(aggregates *ledger.AggregateUseCase, lines *ledger.LineItemUseCase, log *logger.Logger) *AggregateHandler {
	return &AggregateHandler{aggregates: aggregates, lines: lines, log: log}
}

// param copia el parámetro de ruta: fiber reutiliza el buffer de la petición.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

// CreateInvoice POST /api/invoices
func (h *AggregateHandler) CreateInvoice(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.aggregates.CreateInvoice(c.Context(), restaurantID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateOrder POST /api/orders
func (h *AggregateHandler) CreateOrder(c *fiber.Ctx) error {
	restaurantID, userID := GetRestaurantID(c), GetUserID(c)
	if restaurantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.aggregates.CreateOrder(c.Context(), restaurantID, userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateDeliveryOrder POST /api/delivery-orders
func (h *AggregateHandler) CreateDeliveryOrder(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateDeliveryOrderRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.aggregates.CreateDeliveryOrder(c.Context(), restaurantID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get devuelve un handler GET /api/<agregado>/:id para el tipo indicado.
func (h *AggregateHandler) Get(kind entity.AggregateKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID := GetRestaurantID(c)
		if restaurantID == "" {
			return unauthorized(c)
		}
		out, err := h.aggregates.GetAggregate(c.Context(), restaurantID, entity.AggregateRef{Kind: kind, ID: param(c, "id")})
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// AddInvoiceItem POST /api/invoices/:id/items
func (h *AggregateHandler) AddInvoiceItem(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.InvoiceItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.lines.AddInvoiceItem(c.Context(), restaurantID, param(c, "id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddOrderItem POST /api/orders/:id/items
func (h *AggregateHandler) AddOrderItem(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.OrderItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.lines.AddOrderItem(c.Context(), restaurantID, param(c, "id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddOrderItemModifier POST /api/orders/:id/items/:itemId/modifiers
func (h *AggregateHandler) AddOrderItemModifier(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.OrderItemModifierRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.lines.AddOrderItemModifier(c.Context(), restaurantID, param(c, "id"), param(c, "itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddDeliveryOrderItem POST /api/delivery-orders/:id/items
func (h *AggregateHandler) AddDeliveryOrderItem(c *fiber.Ctx) error {
	restaurantID := GetRestaurantID(c)
	if restaurantID == "" {
		return unauthorized(c)
	}
	var in dto.DeliveryOrderItemRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.lines.AddDeliveryOrderItem(c.Context(), restaurantID, param(c, "id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
