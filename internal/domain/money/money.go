// Package money contiene las primitivas de punto fijo para precios, cantidades y totales.
//
// Toda la aritmética se hace con shopspring/decimal (entero escalado de precisión
// arbitraria), sin float64. El redondeo a la escala de destino ocurre solo al
// almacenar un line_total o un total de agregado.
package money

import "github.com/shopspring/decimal"

// Escalas declaradas de las columnas NUMERIC.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 3
)

// Topes de NUMERIC(12,2) y NUMERIC(12,3).
var (
	MaxMoney    = decimal.New(1, 10).Sub(decimal.New(1, -MoneyScale))
	MaxQuantity = decimal.New(1, 9).Sub(decimal.New(1, -QuantityScale))
)

// LineTotal calcula round(unitPrice * quantity, 2). Función pura.
func LineTotal(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(quantity).Round(MoneyScale)
}

// Sum suma sin pérdida una secuencia de montos. No redondea.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// AggregateTotal suma los line_total vivos y redondea una sola vez a 2 decimales.
func AggregateTotal(lineTotals []decimal.Decimal) decimal.Decimal {
	return Sum(lineTotals).Round(MoneyScale)
}

// FitsMoney indica si d no tiene más de 2 decimales significativos.
func FitsMoney(d decimal.Decimal) bool {
	return fitsScale(d, MoneyScale)
}

// FitsQuantity indica si d no tiene más de 3 decimales significativos.
func FitsQuantity(d decimal.Decimal) bool {
	return fitsScale(d, QuantityScale)
}

func fitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// InMoneyRange indica si d cabe en una columna de dinero (|d| <= MaxMoney).
func InMoneyRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxMoney)
}

// ValidPrice: 0 <= precio unitario <= MaxMoney, con escala de dinero.
func ValidPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(MaxMoney) && FitsMoney(d)
}

// ValidQuantity: 0 < cantidad <= MaxQuantity, con escala de cantidad (admite pesos fraccionarios).
func ValidQuantity(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThanOrEqual(MaxQuantity) && FitsQuantity(d)
}
