package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// AggregateRepository acceso genérico al total de Invoice, Order y DeliveryOrder
// usado por el motor de recálculo.
type AggregateRepository interface {
	// LockForUpdate bloquea la fila del agregado (SELECT ... FOR UPDATE).
	// Devuelve domain.ErrStaleAggregate si el agregado no existe.
	LockForUpdate(ctx context.Context, restaurantID string, ref entity.AggregateRef) error
	// ListLiveLineTotals lee el line_total de todas las líneas vivas del agregado.
	ListLiveLineTotals(ctx context.Context, restaurantID string, ref entity.AggregateRef) ([]decimal.Decimal, error)
	// SetTotal escribe el total. Devuelve domain.ErrStaleAggregate si no afectó filas.
	SetTotal(ctx context.Context, restaurantID string, ref entity.AggregateRef, total decimal.Decimal, at time.Time) error
}
