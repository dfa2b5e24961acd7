package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/resto-ledger/internal/interfaces/http"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: app completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

func buildLedgerApp() *fiber.App {
	store := memory.New()
	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Aggregates:  ledger.NewAggregateUseCase(store, log),
		LineItems:   ledger.NewLineItemUseCase(store, log),
		Recalculate: ledger.NewRecalculateUseCase(store, log),
		Statuses:    ledger.NewStatusLedgerUseCase(store, nil, log),
		Discounts:   ledger.NewDiscountUseCase(store, log),
		Log:         log,
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createOrder(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/orders", "cajero", map[string]any{"type": "dine_in"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.AggregateResponse](t, resp).ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	app := buildLedgerApp()
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	app := buildLedgerApp()
	resp := call(t, app, http.MethodPost, "/api/orders", "", map[string]any{"type": "dine_in"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_FacturaConLineas(t *testing.T) {
	app := buildLedgerApp()

	resp := call(t, app, http.MethodPost, "/api/invoices", "cajero", map[string]any{"supplier_id": "prov-1", "number": "F-1"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo admin registra facturas")

	resp = call(t, app, http.MethodPost, "/api/invoices", "admin", map[string]any{"supplier_id": "prov-1", "number": "F-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	invID := decode[dto.AggregateResponse](t, resp).ID

	resp = call(t, app, http.MethodPost, "/api/invoices/"+invID+"/items", "admin",
		map[string]any{"product_id": "harina", "unit_price": "10.00", "quantity": "2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode[dto.LineMutationResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/invoices/"+invID+"/items", "admin",
		map[string]any{"product_id": "aceite", "unit_price": "5.50", "quantity": "3"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.LineMutationResponse](t, resp)
	assert.Equal(t, "36.50", out.AggregateTotal.StringFixed(2))

	resp = call(t, app, http.MethodGet, "/api/invoices/"+invID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	agg := decode[dto.AggregateResponse](t, resp)
	assert.Len(t, agg.Items, 2)
	assert.Equal(t, "36.50", agg.Total.StringFixed(2))

	resp = call(t, app, http.MethodPost, "/api/invoices", "admin", map[string]any{"supplier_id": "prov-1", "number": "F-1"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "número de factura repetido para el proveedor")
}

func TestAPI_LineaConEscalaInvalida_Retorna400(t *testing.T) {
	app := buildLedgerApp()
	orderID := createOrder(t, app)

	resp := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/items", "cajero",
		map[string]any{"dish_id": "d1", "unit_price": "1.005", "quantity": "1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_CuerpoInvalido_Retorna400(t *testing.T) {
	app := buildLedgerApp()
	resp := call(t, app, http.MethodPost, "/api/orders", "cajero", map[string]any{"type": "buffet"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestAPI_AgregadoInexistente_Retorna410(t *testing.T) {
	app := buildLedgerApp()
	resp := call(t, app, http.MethodPost, "/api/orders/no-existe/items", "cajero",
		map[string]any{"dish_id": "d1", "unit_price": "1.00", "quantity": "1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestAPI_ActualizarYEliminarLinea(t *testing.T) {
	app := buildLedgerApp()
	orderID := createOrder(t, app)

	resp := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/items", "cajero",
		map[string]any{"dish_id": "d1", "unit_price": "8.00", "quantity": "1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	itemID := decode[dto.LineMutationResponse](t, resp).Item.ID

	resp = call(t, app, http.MethodPatch, "/api/line-items/order_item/"+itemID, "cajero", map[string]any{"quantity": "3"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "24.00", decode[dto.LineMutationResponse](t, resp).AggregateTotal.StringFixed(2))

	resp = call(t, app, http.MethodDelete, "/api/line-items/order_item/"+itemID, "cajero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.LineMutationResponse](t, resp).AggregateTotal.IsZero())

	resp = call(t, app, http.MethodPost, "/api/aggregates/order/"+orderID+"/recalculate", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.RecalculateResponse](t, resp).Total.IsZero())
}

func TestAPI_TransicionesDeEstado(t *testing.T) {
	app := buildLedgerApp()
	orderID := createOrder(t, app)

	resp := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/status", "cocina", map[string]any{"status": "cooking"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/status", "cocina", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[dto.StatusEntryResponse](t, resp)
	assert.Equal(t, "confirmed", entry.Status)
	assert.Equal(t, testUserID, entry.ActorID)

	resp = call(t, app, http.MethodGet, "/api/orders/"+orderID+"/status", "cocina", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "confirmed", decode[dto.CurrentStatusResponse](t, resp).Status)

	resp = call(t, app, http.MethodGet, "/api/orders/"+orderID+"/status/history", "cocina", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[struct {
		Items []dto.StatusEntryResponse `json:"items"`
	}](t, resp)
	assert.Len(t, hist.Items, 2)
}

func TestAPI_Descuentos(t *testing.T) {
	app := buildLedgerApp()
	orderID := createOrder(t, app)
	resp := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/items", "cajero",
		map[string]any{"dish_id": "d1", "unit_price": "10.00", "quantity": "1"})
	resp.Body.Close()

	apply := func(sourceID, amount string) int {
		r := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/discounts", "cajero", map[string]any{
			"source_kind": "promo_code", "source_id": sourceID, "customer_id": "c1", "amount": amount,
		})
		r.Body.Close()
		return r.StatusCode
	}
	assert.Equal(t, http.StatusUnprocessableEntity, apply("P1", "10.01"))
	assert.Equal(t, http.StatusCreated, apply("P1", "2.00"))
	assert.Equal(t, http.StatusConflict, apply("P1", "2.00"))

	resp = call(t, app, http.MethodDelete, "/api/orders/"+orderID+"/discounts", "cajero", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "solo se revocan descuentos de órdenes anuladas")

	resp = call(t, app, http.MethodGet, "/api/orders/"+orderID+"/discounts", "cocina", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Items []dto.DiscountUsageResponse `json:"items"`
	}](t, resp)
	assert.Len(t, list.Items, 1)
}
