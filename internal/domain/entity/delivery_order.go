package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryOrder orden recibida desde una plataforma de domicilios.
type DeliveryOrder struct {
	ID           string
	RestaurantID string
	CustomerID   string
	Platform     string
	ExternalRef  string
	Address      string
	Total        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SelectedModifier snapshot de un modificador elegido en la plataforma.
// Es dato de visualización: no entra al recálculo.
type SelectedModifier struct {
	ModifierID string          `json:"modifier_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// DeliveryOrderItem línea de una orden de domicilio con precio congelado.
type DeliveryOrderItem struct {
	LinePricing
	ID              string
	RestaurantID    string
	DeliveryOrderID string
	DishID          string
	Name            string
	Modifiers       []SelectedModifier
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var _ LineItem = (*DeliveryOrderItem)(nil)

func (i *DeliveryOrderItem) LineID() string        { return i.ID }
func (i *DeliveryOrderItem) Kind() LineKind        { return LineDeliveryOrderItem }
func (i *DeliveryOrderItem) Restaurant() string    { return i.RestaurantID }
func (i *DeliveryOrderItem) Pricing() *LinePricing { return &i.LinePricing }
func (i *DeliveryOrderItem) Aggregate() AggregateRef {
	return AggregateRef{Kind: AggregateDeliveryOrder, ID: i.DeliveryOrderID}
}
