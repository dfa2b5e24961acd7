package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tipo de servicio de la orden.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

// Valid indica si el tipo de orden es conocido.
func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeout || t == OrderTypeDelivery
}

// Order cabecera de una orden del restaurante. Total es el subtotal antes de
// descuentos: suma de ítems y modificadores vivos.
type Order struct {
	ID           string
	RestaurantID string
	CustomerID   string
	Number       string
	Type         OrderType
	Total        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem plato dentro de una orden. Se elimina con tombstone (DeletedAt).
type OrderItem struct {
	LinePricing
	ID           string
	RestaurantID string
	OrderID      string
	DishID       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

var _ LineItem = (*OrderItem)(nil)

func (i *OrderItem) LineID() string        { return i.ID }
func (i *OrderItem) Kind() LineKind        { return LineOrderItem }
func (i *OrderItem) Restaurant() string    { return i.RestaurantID }
func (i *OrderItem) Pricing() *LinePricing { return &i.LinePricing }
func (i *OrderItem) Aggregate() AggregateRef {
	return AggregateRef{Kind: AggregateOrder, ID: i.OrderID}
}

// OrderItemModifier modificador elegido para un OrderItem (extra queso, etc.).
// Aporta al total de la orden; OrderID se copia del ítem padre.
type OrderItemModifier struct {
	LinePricing
	ID           string
	RestaurantID string
	OrderID      string
	OrderItemID  string
	ModifierID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

var _ LineItem = (*OrderItemModifier)(nil)

func (m *OrderItemModifier) LineID() string        { return m.ID }
func (m *OrderItemModifier) Kind() LineKind        { return LineOrderItemModifier }
func (m *OrderItemModifier) Restaurant() string    { return m.RestaurantID }
func (m *OrderItemModifier) Pricing() *LinePricing { return &m.LinePricing }
func (m *OrderItemModifier) Aggregate() AggregateRef {
	return AggregateRef{Kind: AggregateOrder, ID: m.OrderID}
}
