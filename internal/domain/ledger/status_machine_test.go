package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/ledger"
)

func TestCanTransition_CaminoFeliz(t *testing.T) {
	path := []entity.OrderStatus{
		entity.OrderStatusNew, entity.OrderStatusConfirmed, entity.OrderStatusCooking,
		entity.OrderStatusReady, entity.OrderStatusCompleted,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, ledger.CanTransition(entity.OrderTypeDineIn, path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestCanTransition_Domicilio(t *testing.T) {
	assert.True(t, ledger.CanTransition(entity.OrderTypeDelivery, entity.OrderStatusReady, entity.OrderStatusDelivering))
	assert.True(t, ledger.CanTransition(entity.OrderTypeDelivery, entity.OrderStatusDelivering, entity.OrderStatusCompleted))
	assert.False(t, ledger.CanTransition(entity.OrderTypeDelivery, entity.OrderStatusReady, entity.OrderStatusCompleted),
		"un domicilio debe pasar por delivering")
	assert.False(t, ledger.CanTransition(entity.OrderTypeTakeout, entity.OrderStatusReady, entity.OrderStatusDelivering))
}

func TestCanTransition_SaltosYRetrocesosRechazados(t *testing.T) {
	assert.False(t, ledger.CanTransition(entity.OrderTypeDineIn, entity.OrderStatusNew, entity.OrderStatusCooking))
	assert.False(t, ledger.CanTransition(entity.OrderTypeDineIn, entity.OrderStatusCooking, entity.OrderStatusConfirmed))
	assert.False(t, ledger.CanTransition(entity.OrderTypeDineIn, entity.OrderStatusNew, entity.OrderStatusNew))
}

func TestCanTransition_CancelarDesdeNoTerminales(t *testing.T) {
	for _, from := range []entity.OrderStatus{
		entity.OrderStatusNew, entity.OrderStatusConfirmed, entity.OrderStatusCooking,
		entity.OrderStatusReady, entity.OrderStatusDelivering,
	} {
		assert.True(t, ledger.CanTransition(entity.OrderTypeDelivery, from, entity.OrderStatusCancelled), string(from))
	}
}

func TestCanTransition_TerminalesSinSalida(t *testing.T) {
	for _, from := range []entity.OrderStatus{entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		assert.Empty(t, ledger.NextStatuses(entity.OrderTypeDineIn, from))
		assert.True(t, from.Terminal())
	}
}

func TestNextStatuses_FiltraPorTipo(t *testing.T) {
	assert.ElementsMatch(t,
		[]entity.OrderStatus{entity.OrderStatusCompleted, entity.OrderStatusCancelled},
		ledger.NextStatuses(entity.OrderTypeDineIn, entity.OrderStatusReady))
	assert.ElementsMatch(t,
		[]entity.OrderStatus{entity.OrderStatusDelivering, entity.OrderStatusCancelled},
		ledger.NextStatuses(entity.OrderTypeDelivery, entity.OrderStatusReady))
}
