package entity

// AggregateKind identifica el tipo de registro padre cuyo total se deriva de sus líneas.
type AggregateKind string

const (
	AggregateInvoice       AggregateKind = "invoice"
	AggregateOrder         AggregateKind = "order"
	AggregateDeliveryOrder AggregateKind = "delivery_order"
)

// Valid indica si el tipo de agregado es conocido.
func (k AggregateKind) Valid() bool {
	switch k {
	case AggregateInvoice, AggregateOrder, AggregateDeliveryOrder:
		return true
	}
	return false
}

// AggregateRef referencia a un agregado concreto (tipo + ID).
type AggregateRef struct {
	Kind AggregateKind
	ID   string
}

// LineKind identifica el tipo concreto de línea.
type LineKind string

const (
	LineInvoiceItem       LineKind = "invoice_item"
	LineOrderItem         LineKind = "order_item"
	LineOrderItemModifier LineKind = "order_item_modifier"
	LineDeliveryOrderItem LineKind = "delivery_order_item"
)

// Valid indica si el tipo de línea es conocido.
func (k LineKind) Valid() bool {
	switch k {
	case LineInvoiceItem, LineOrderItem, LineOrderItemModifier, LineDeliveryOrderItem:
		return true
	}
	return false
}
