package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// Roles del token.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
	RoleCocina = "cocina"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Aggregates  *ledger.AggregateUseCase
	LineItems   *ledger.LineItemUseCase
	Recalculate *ledger.RecalculateUseCase
	Statuses    *ledger.StatusLedgerUseCase
	Discounts   *ledger.DiscountUseCase
	Log         *logger.Logger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	caja := RequireRole(RoleAdmin, RoleCajero)

	aggHandler := NewAggregateHandler(deps.Aggregates, deps.LineItems, deps.Log)
	lineHandler := NewLineItemHandler(deps.LineItems, deps.Recalculate, deps.Log)
	statusHandler := NewStatusHandler(deps.Statuses, deps.Log)
	discountHandler := NewDiscountHandler(deps.Discounts, deps.Log)

	// Facturas de proveedor
	invoices := api.Group("/invoices", RequireRole(RoleAdmin))
	invoices.Post("/", aggHandler.CreateInvoice)
	invoices.Get("/:id", aggHandler.Get(entity.AggregateInvoice))
	invoices.Post("/:id/items", aggHandler.AddInvoiceItem)

	// Órdenes
	orders := api.Group("/orders")
	orders.Post("/", caja, aggHandler.CreateOrder)
	orders.Get("/:id", aggHandler.Get(entity.AggregateOrder))
	orders.Post("/:id/items", caja, aggHandler.AddOrderItem)
	orders.Post("/:id/items/:itemId/modifiers", caja, aggHandler.AddOrderItemModifier)

	// Estados (cocina también avanza el ciclo)
	orders.Post("/:id/status", statusHandler.Transition)
	orders.Get("/:id/status", statusHandler.Current)
	orders.Get("/:id/status/history", statusHandler.History)

	// Descuentos
	orders.Post("/:id/discounts", caja, discountHandler.Apply)
	orders.Get("/:id/discounts", discountHandler.List)
	orders.Delete("/:id/discounts", caja, discountHandler.Revoke)

	// Domicilios
	delivery := api.Group("/delivery-orders", caja)
	delivery.Post("/", aggHandler.CreateDeliveryOrder)
	delivery.Get("/:id", aggHandler.Get(entity.AggregateDeliveryOrder))
	delivery.Post("/:id/items", aggHandler.AddDeliveryOrderItem)

	// Líneas de cualquier agregado
	lines := api.Group("/line-items", caja)
	lines.Patch("/:kind/:id", lineHandler.Update)
	lines.Delete("/:kind/:id", lineHandler.Delete)

	api.Post("/aggregates/:kind/:id/recalculate", RequireRole(RoleAdmin), lineHandler.Recalculate)
}
