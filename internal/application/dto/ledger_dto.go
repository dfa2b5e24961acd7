package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	SupplierID string     `json:"supplier_id" validate:"required,max=64"`
	Number     string     `json:"number" validate:"required,max=40"`
	Date       *time.Time `json:"date,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string `json:"customer_id" validate:"omitempty,max=64"`
	Number     string `json:"number,omitempty" validate:"omitempty,max=40"` // si va vacío se genera
	Type       string `json:"type" validate:"required,oneof=dine_in takeout delivery"`
}

// CreateDeliveryOrderRequest body para POST /api/delivery-orders.
type CreateDeliveryOrderRequest struct {
	CustomerID  string `json:"customer_id" validate:"omitempty,max=64"`
	Platform    string `json:"platform" validate:"required,max=40"`
	ExternalRef string `json:"external_ref" validate:"required,max=80"`
	Address     string `json:"address" validate:"required,min=5,max=255"`
}

// InvoiceItemRequest línea de factura. line_total no se acepta: se calcula.
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required,max=64"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty" validate:"omitempty,max=60"`
}

// OrderItemRequest plato agregado a una orden.
type OrderItemRequest struct {
	DishID    string          `json:"dish_id" validate:"required,max=64"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty" validate:"omitempty,max=255"`
}

// OrderItemModifierRequest modificador para un ítem de orden.
type OrderItemModifierRequest struct {
	ModifierID string          `json:"modifier_id" validate:"required,max=64"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// SelectedModifierRequest snapshot de modificador enviado por la plataforma de domicilios.
type SelectedModifierRequest struct {
	ModifierID string          `json:"modifier_id" validate:"required,max=64"`
	Name       string          `json:"name" validate:"required,max=80"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// DeliveryOrderItemRequest línea de una orden de domicilio.
type DeliveryOrderItemRequest struct {
	DishID    string                    `json:"dish_id" validate:"required,max=64"`
	Name      string                    `json:"name" validate:"required,max=120"`
	UnitPrice decimal.Decimal           `json:"unit_price"`
	Quantity  decimal.Decimal           `json:"quantity"`
	Modifiers []SelectedModifierRequest `json:"modifiers,omitempty" validate:"omitempty,dive"`
}

// UpdateLineItemRequest body para PATCH /api/line-items/:kind/:id. Campos nil no cambian.
type UpdateLineItemRequest struct {
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	AggregateKind string          `json:"aggregate_kind"`
	AggregateID   string          `json:"aggregate_id"`
	ParentItemID  string          `json:"parent_item_id,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// LineMutationResponse resultado de crear/actualizar/eliminar una línea: la línea
// (nil en delete) y el total del agregado ya recalculado.
type LineMutationResponse struct {
	Item           *LineItemResponse `json:"item,omitempty"`
	AggregateKind  string            `json:"aggregate_kind"`
	AggregateID    string            `json:"aggregate_id"`
	AggregateTotal decimal.Decimal   `json:"aggregate_total"`
}

// AggregateResponse agregado con su total y líneas vivas.
type AggregateResponse struct {
	ID            string             `json:"id"`
	Kind          string             `json:"kind"`
	RestaurantID  string             `json:"restaurant_id"`
	Number        string             `json:"number,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	CurrentStatus string             `json:"current_status,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []LineItemResponse `json:"items"`
}

// RecalculateResponse respuesta de POST /api/aggregates/:kind/:id/recalculate.
type RecalculateResponse struct {
	Kind  string          `json:"kind"`
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// TransitionRequest body para POST /api/orders/:id/status. El actor sale del token.
type TransitionRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// StatusEntryResponse entrada del historial de estados.
type StatusEntryResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Comment   string    `json:"comment,omitempty"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CurrentStatusResponse estado actual derivado del historial.
type CurrentStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ApplyDiscountRequest body para POST /api/orders/:id/discounts.
// El monto lo calcula el servicio de elegibilidad de promociones.
type ApplyDiscountRequest struct {
	SourceKind string          `json:"source_kind" validate:"required,oneof=promo_code promotion"`
	SourceID   string          `json:"source_id" validate:"required,max=64"`
	CustomerID string          `json:"customer_id" validate:"required,max=64"`
	Amount     decimal.Decimal `json:"amount"`
}

// DiscountUsageResponse uso de descuento registrado.
type DiscountUsageResponse struct {
	ID             string          `json:"id"`
	SourceKind     string          `json:"source_kind"`
	SourceID       string          `json:"source_id"`
	CustomerID     string          `json:"customer_id"`
	OrderID        string          `json:"order_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RevokeDiscountsResponse cantidad de usos eliminados al anular una orden.
type RevokeDiscountsResponse struct {
	OrderID string `json:"order_id"`
	Revoked int64  `json:"revoked"`
}
