package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura de proveedor.
// Total es derivado: suma de los line_total de sus ítems.
type Invoice struct {
	ID           string
	RestaurantID string
	SupplierID   string
	Number       string
	Date         time.Time
	Total        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InvoiceItem línea de factura (insumo recibido). ExpiryDate y BatchNumber son
// informativos y no afectan el ledger.
type InvoiceItem struct {
	LinePricing
	ID           string
	RestaurantID string
	InvoiceID    string
	ProductID    string
	ExpiryDate   *time.Time
	BatchNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var _ LineItem = (*InvoiceItem)(nil)

func (i *InvoiceItem) LineID() string        { return i.ID }
func (i *InvoiceItem) Kind() LineKind        { return LineInvoiceItem }
func (i *InvoiceItem) Restaurant() string    { return i.RestaurantID }
func (i *InvoiceItem) Pricing() *LinePricing { return &i.LinePricing }
func (i *InvoiceItem) Aggregate() AggregateRef {
	return AggregateRef{Kind: AggregateInvoice, ID: i.InvoiceID}
}
