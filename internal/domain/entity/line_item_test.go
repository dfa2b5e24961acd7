package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

func TestLinePricing_PriceIgnoraLineTotalPrevio(t *testing.T) {
	item := &entity.InvoiceItem{
		LinePricing: entity.LinePricing{
			UnitPrice: decimal.RequireFromString("10.00"),
			Quantity:  decimal.RequireFromString("2"),
			LineTotal: decimal.RequireFromString("999.99"),
		},
		InvoiceID: "inv-1",
	}
	got := item.Price()
	assert.Equal(t, "20.00", got.StringFixed(2))
	assert.True(t, item.LineTotal.Equal(got))
}

func TestLineItem_AgregadoPorTipo(t *testing.T) {
	cases := []struct {
		item entity.LineItem
		want entity.AggregateRef
		kind entity.LineKind
	}{
		{&entity.InvoiceItem{InvoiceID: "i"}, entity.AggregateRef{Kind: entity.AggregateInvoice, ID: "i"}, entity.LineInvoiceItem},
		{&entity.OrderItem{OrderID: "o"}, entity.AggregateRef{Kind: entity.AggregateOrder, ID: "o"}, entity.LineOrderItem},
		{&entity.OrderItemModifier{OrderID: "o", OrderItemID: "x"}, entity.AggregateRef{Kind: entity.AggregateOrder, ID: "o"}, entity.LineOrderItemModifier},
		{&entity.DeliveryOrderItem{DeliveryOrderID: "d"}, entity.AggregateRef{Kind: entity.AggregateDeliveryOrder, ID: "d"}, entity.LineDeliveryOrderItem},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.item.Aggregate())
		assert.Equal(t, tc.kind, tc.item.Kind())
	}
}

func TestLinePricing_Valid(t *testing.T) {
	ok := entity.LinePricing{UnitPrice: decimal.RequireFromString("1.50"), Quantity: decimal.RequireFromString("0.250")}
	assert.True(t, ok.Valid())

	badScale := entity.LinePricing{UnitPrice: decimal.RequireFromString("1.505"), Quantity: decimal.RequireFromString("1")}
	assert.False(t, badScale.Valid())

	zeroQty := entity.LinePricing{UnitPrice: decimal.RequireFromString("1.50"), Quantity: decimal.Zero}
	assert.False(t, zeroQty.Valid())
}

func TestLinePricing_Valid_LineTotalFueraDeRango(t *testing.T) {
	// precio y cantidad caben por separado, el producto no
	big := entity.LinePricing{UnitPrice: decimal.RequireFromString("9999999999.99"), Quantity: decimal.RequireFromString("1000")}
	assert.False(t, big.Valid())

	edge := entity.LinePricing{UnitPrice: decimal.RequireFromString("9999999999.99"), Quantity: decimal.RequireFromString("1")}
	assert.True(t, edge.Valid())
}
