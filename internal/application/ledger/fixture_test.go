package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

const (
	testRestaurant  = "rest-1"
	otherRestaurant = "rest-2"
	testActor       = "user-1"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []ledger.StatusChangedMessage
	err  error
}

func (n *recordingNotifier) PublishStatusChange(_ context.Context, msg ledger.StatusChangedMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.err
}

type fixture struct {
	store      *memory.Store
	aggregates *ledger.AggregateUseCase
	lines      *ledger.LineItemUseCase
	recalc     *ledger.RecalculateUseCase
	statuses   *ledger.StatusLedgerUseCase
	discounts  *ledger.DiscountUseCase
	notifier   *recordingNotifier
}

func newFixture() *fixture {
	store := memory.New()
	log := logger.Nop()
	notifier := &recordingNotifier{}
	return &fixture{
		store:      store,
		aggregates: ledger.NewAggregateUseCase(store, log),
		lines:      ledger.NewLineItemUseCase(store, log),
		recalc:     ledger.NewRecalculateUseCase(store, log),
		statuses:   ledger.NewStatusLedgerUseCase(store, notifier, log),
		discounts:  ledger.NewDiscountUseCase(store, log),
		notifier:   notifier,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func (f *fixture) invoice(t *testing.T) string {
	t.Helper()
	inv, err := f.aggregates.CreateInvoice(context.Background(), testRestaurant, dto.CreateInvoiceRequest{
		SupplierID: "prov-1",
		Number:     "F-" + t.Name(),
	})
	require.NoError(t, err)
	return inv.ID
}

func (f *fixture) order(t *testing.T, orderType string) string {
	t.Helper()
	o, err := f.aggregates.CreateOrder(context.Background(), testRestaurant, testActor, dto.CreateOrderRequest{Type: orderType})
	require.NoError(t, err)
	return o.ID
}

func (f *fixture) orderItem(t *testing.T, orderID, price, qty string) *dto.LineMutationResponse {
	t.Helper()
	out, err := f.lines.AddOrderItem(context.Background(), testRestaurant, orderID, dto.OrderItemRequest{
		DishID: "dish-1", UnitPrice: dec(price), Quantity: dec(qty),
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) advance(t *testing.T, orderID string, statuses ...string) {
	t.Helper()
	for _, s := range statuses {
		_, err := f.statuses.Transition(context.Background(), testRestaurant, orderID, testActor, dto.TransitionRequest{Status: s})
		require.NoError(t, err, "transición a %s", s)
	}
}

func requireIs(t *testing.T, err, target error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "se esperaba %v, se obtuvo %v", target, err)
}
