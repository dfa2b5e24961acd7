package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain/money"
)

// LinePricing precio unitario, cantidad y total de una línea.
// LineTotal nunca se recibe del caller: lo fija Price.
type LinePricing struct {
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	LineTotal decimal.Decimal
}

// Price recalcula LineTotal = round(UnitPrice * Quantity, 2) y lo devuelve.
func (p *LinePricing) Price() decimal.Decimal {
	p.LineTotal = money.LineTotal(p.UnitPrice, p.Quantity)
	return p.LineTotal
}

// Valid verifica rangos y escalas de precio y cantidad, y que el line_total
// resultante quepa en la columna de dinero.
func (p *LinePricing) Valid() bool {
	return money.ValidPrice(p.UnitPrice) && money.ValidQuantity(p.Quantity) &&
		money.InMoneyRange(money.LineTotal(p.UnitPrice, p.Quantity))
}

// LineItem es la capacidad común de InvoiceItem, OrderItem, OrderItemModifier y
// DeliveryOrderItem: una fila que aporta su line_total al total de un agregado.
type LineItem interface {
	LineID() string
	Kind() LineKind
	Restaurant() string
	Aggregate() AggregateRef
	Pricing() *LinePricing
}
