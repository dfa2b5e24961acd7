package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/resto-ledger/internal/domain/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// LineTotal: round(precio * cantidad, 2), mitades lejos de cero
// ──────────────────────────────────────────────────────────────────────────────

func TestLineTotal_Casos(t *testing.T) {
	cases := []struct {
		price, qty, want string
	}{
		{"10.00", "2", "20.00"},
		{"5.50", "3", "16.50"},
		{"3.33", "0.333", "1.11"},  // 1.10889
		{"0.05", "0.5", "0.03"},    // 0.025 -> 0.03
		{"19.99", "1.255", "25.09"}, // 25.08745
		{"0.00", "4", "0.00"},
	}
	for _, tc := range cases {
		got := money.LineTotal(d(tc.price), d(tc.qty))
		assert.True(t, d(tc.want).Equal(got), "%s x %s = %s, se obtuvo %s", tc.price, tc.qty, tc.want, got)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AggregateTotal: suma sin pérdida, un solo redondeo
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregateTotal_SumaExacta(t *testing.T) {
	total := money.AggregateTotal([]decimal.Decimal{d("20.00"), d("16.50")})
	assert.Equal(t, "36.50", total.StringFixed(2))
}

func TestAggregateTotal_SinLineas(t *testing.T) {
	assert.True(t, money.AggregateTotal(nil).IsZero())
}

func TestAggregateTotal_MilCentavosSinDeriva(t *testing.T) {
	lines := make([]decimal.Decimal, 1000)
	for i := range lines {
		lines[i] = d("0.01")
	}
	assert.Equal(t, "10.00", money.AggregateTotal(lines).StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de escala y rango
// ──────────────────────────────────────────────────────────────────────────────

func TestValidPrice(t *testing.T) {
	assert.True(t, money.ValidPrice(d("0")))
	assert.True(t, money.ValidPrice(d("12.30")))
	assert.True(t, money.ValidPrice(d("12.300")), "ceros a la derecha no cuentan como escala")
	assert.False(t, money.ValidPrice(d("-0.01")))
	assert.False(t, money.ValidPrice(d("1.001")))
}

func TestValidPrice_TopeDeColumna(t *testing.T) {
	assert.Equal(t, "9999999999.99", money.MaxMoney.StringFixed(2))
	assert.True(t, money.ValidPrice(d("9999999999.99")))
	assert.False(t, money.ValidPrice(d("10000000000.00")))
	assert.False(t, money.ValidPrice(d("1000000000000000")))
}

func TestValidQuantity_TopeDeColumna(t *testing.T) {
	assert.Equal(t, "999999999.999", money.MaxQuantity.StringFixed(3))
	assert.True(t, money.ValidQuantity(d("999999999.999")))
	assert.False(t, money.ValidQuantity(d("1000000000")))
}

func TestInMoneyRange(t *testing.T) {
	assert.True(t, money.InMoneyRange(d("9999999999.99")))
	assert.True(t, money.InMoneyRange(d("-9999999999.99")))
	assert.False(t, money.InMoneyRange(money.LineTotal(d("9999999999.99"), d("1000"))))
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, money.ValidQuantity(d("0.001")))
	assert.True(t, money.ValidQuantity(d("2")))
	assert.False(t, money.ValidQuantity(d("0")))
	assert.False(t, money.ValidQuantity(d("-1")))
	assert.False(t, money.ValidQuantity(d("0.0001")))
}
