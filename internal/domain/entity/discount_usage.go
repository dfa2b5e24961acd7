package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountSourceKind origen del descuento: código promocional o promoción.
type DiscountSourceKind string

const (
	DiscountPromoCode DiscountSourceKind = "promo_code"
	DiscountPromotion DiscountSourceKind = "promotion"
)

// Valid indica si el origen es conocido.
func (k DiscountSourceKind) Valid() bool {
	return k == DiscountPromoCode || k == DiscountPromotion
}

// DiscountUsage registra que un código/promoción se aplicó a una orden.
// Único por (SourceKind, SourceID, OrderID); nunca se actualiza.
type DiscountUsage struct {
	ID             string
	RestaurantID   string
	SourceKind     DiscountSourceKind
	SourceID       string
	CustomerID     string
	OrderID        string
	DiscountAmount decimal.Decimal
	CreatedAt      time.Time
}
