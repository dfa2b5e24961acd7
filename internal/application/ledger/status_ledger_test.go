package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

func TestCreateOrder_SiembraEstadoNew(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := f.order(t, "dine_in")

	cur, err := f.statuses.CurrentStatus(ctx, testRestaurant, orderID)
	require.NoError(t, err)
	assert.Equal(t, "new", cur.Status)

	agg, err := f.aggregates.GetAggregate(ctx, testRestaurant, entity.AggregateRef{Kind: entity.AggregateOrder, ID: orderID})
	require.NoError(t, err)
	assert.Equal(t, "new", agg.CurrentStatus)
	assert.Contains(t, agg.Number, "ORD-")
}

func TestTransition_CicloCompletoMesa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := f.order(t, "dine_in")

	f.advance(t, orderID, "confirmed", "cooking", "ready", "completed")

	hist, err := f.statuses.History(ctx, testRestaurant, orderID)
	require.NoError(t, err)
	got := make([]string, 0, len(hist))
	for i, h := range hist {
		got = append(got, h.Status)
		if i > 0 {
			assert.True(t, h.CreatedAt.After(hist[i-1].CreatedAt), "created_at debe ser estrictamente creciente")
		}
	}
	assert.Equal(t, []string{"new", "confirmed", "cooking", "ready", "completed"}, got)

	cur, err := f.statuses.CurrentStatus(ctx, testRestaurant, orderID)
	require.NoError(t, err)
	assert.Equal(t, "completed", cur.Status)
}

func TestTransition_DomicilioPasaPorDelivering(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := f.order(t, "delivery")
	f.advance(t, orderID, "confirmed", "cooking", "ready")

	_, err := f.statuses.Transition(ctx, testRestaurant, orderID, testActor, dto.TransitionRequest{Status: "completed"})
	requireIs(t, err, domain.ErrInvalidTransition)

	f.advance(t, orderID, "delivering", "completed")
}

func TestTransition_NoPermitida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := f.order(t, "dine_in")

	_, err := f.statuses.Transition(ctx, testRestaurant, orderID, testActor, dto.TransitionRequest{Status: "cooking"})
	requireIs(t, err, domain.ErrInvalidTransition)

	hist, err := f.statuses.History(ctx, testRestaurant, orderID)
	require.NoError(t, err)
	assert.Len(t, hist, 1, "una transición rechazada no escribe historial")
	assert.Empty(t, f.notifier.msgs)
}

func TestTransition_DesdeEstadoTerminal(t *testing.T) {
	f := newFixture()
	orderID := f.order(t, "takeout")
	f.advance(t, orderID, "cancelled")

	_, err := f.statuses.Transition(context.Background(), testRestaurant, orderID, testActor, dto.TransitionRequest{Status: "confirmed"})
	requireIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	f := newFixture()
	orderID := f.order(t, "takeout")
	_, err := f.statuses.Transition(context.Background(), testRestaurant, orderID, testActor, dto.TransitionRequest{Status: "served"})
	requireIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_OrdenInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.statuses.Transition(context.Background(), testRestaurant, "no-existe", testActor, dto.TransitionRequest{Status: "confirmed"})
	requireIs(t, err, domain.ErrNotFound)

	_, err = f.statuses.CurrentStatus(context.Background(), testRestaurant, "no-existe")
	requireIs(t, err, domain.ErrNotFound)
}

func TestTransition_SinHistorial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now().UTC()
	err := f.store.RunLedger(ctx, func(repos ledger.TxRepos) error {
		return repos.Orders.Create(ctx, &entity.Order{
			ID: "huerfana", RestaurantID: testRestaurant, Number: "X-1",
			Type: entity.OrderTypeDineIn, CreatedAt: now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)

	_, err = f.statuses.Transition(ctx, testRestaurant, "huerfana", testActor, dto.TransitionRequest{Status: "confirmed"})
	requireIs(t, err, domain.ErrNoHistory)
	_, err = f.statuses.CurrentStatus(ctx, testRestaurant, "huerfana")
	requireIs(t, err, domain.ErrNoHistory)
}

func TestTransition_NotificaDespuesDelCommit(t *testing.T) {
	f := newFixture()
	orderID := f.order(t, "dine_in")
	f.advance(t, orderID, "confirmed")

	require.Len(t, f.notifier.msgs, 1)
	msg := f.notifier.msgs[0]
	assert.Equal(t, orderID, msg.OrderID)
	assert.Equal(t, entity.OrderStatusNew, msg.OldStatus)
	assert.Equal(t, entity.OrderStatusConfirmed, msg.NewStatus)
	assert.Equal(t, testActor, msg.ActorID)
}

func TestTransition_FalloDelNotificadorNoRevierte(t *testing.T) {
	store := newFixture().store
	notifier := &recordingNotifier{err: errors.New("broker caído")}
	aggregates := ledger.NewAggregateUseCase(store, logger.Nop())
	statuses := ledger.NewStatusLedgerUseCase(store, notifier, logger.Nop())
	ctx := context.Background()

	o, err := aggregates.CreateOrder(ctx, testRestaurant, testActor, dto.CreateOrderRequest{Type: "dine_in"})
	require.NoError(t, err)
	_, err = statuses.Transition(ctx, testRestaurant, o.ID, testActor, dto.TransitionRequest{Status: "confirmed"})
	require.NoError(t, err)

	cur, err := statuses.CurrentStatus(ctx, testRestaurant, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", cur.Status)
}

func TestTransition_SinNotificador(t *testing.T) {
	store := newFixture().store
	aggregates := ledger.NewAggregateUseCase(store, logger.Nop())
	statuses := ledger.NewStatusLedgerUseCase(store, nil, logger.Nop())
	ctx := context.Background()

	o, err := aggregates.CreateOrder(ctx, testRestaurant, testActor, dto.CreateOrderRequest{Type: "takeout"})
	require.NoError(t, err)
	_, err = statuses.Transition(ctx, testRestaurant, o.ID, testActor, dto.TransitionRequest{Status: "confirmed"})
	require.NoError(t, err)
}

func TestTransition_ConcurrentesDesdeElMismoEstado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := f.order(t, "dine_in")

	// confirmed y cancelled son válidas desde new, pero solo una puede partir de new
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, rejected int
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.statuses.Transition(ctx, testRestaurant, orderID, testActor, dto.TransitionRequest{Status: "confirmed"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInvalidTransition) {
				rejected++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, rejected)
}
