package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/money"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// Recalculate sincroniza el total del agregado con sus líneas vivas. Debe
// ejecutarse con repositorios de la misma transacción que la mutación de línea:
// bloquea la fila del agregado, relee todas las líneas (nunca una suma cacheada),
// suma sin pérdida, redondea una vez a 2 decimales y escribe.
func Recalculate(ctx context.Context, aggRepo repository.AggregateRepository, restaurantID string, ref entity.AggregateRef, now time.Time) (decimal.Decimal, error) {
	if err := aggRepo.LockForUpdate(ctx, restaurantID, ref); err != nil {
		return decimal.Zero, err
	}
	lineTotals, err := aggRepo.ListLiveLineTotals(ctx, restaurantID, ref)
	if err != nil {
		return decimal.Zero, err
	}
	total := money.AggregateTotal(lineTotals)
	if !money.InMoneyRange(total) {
		return decimal.Zero, fmt.Errorf("%w: total %s fuera de rango", domain.ErrInvalidInput, total.StringFixed(money.MoneyScale))
	}
	if err := aggRepo.SetTotal(ctx, restaurantID, ref, total, now); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// RecalculateUseCase expone el recálculo como operación pública en su propia transacción.
type RecalculateUseCase struct {
	txRunner LedgerTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRecalculateUseCase construye el caso de uso.
func NewRecalculateUseCase(txRunner LedgerTxRunner, log *logger.Logger) *RecalculateUseCase {
	return &RecalculateUseCase{txRunner: txRunner, log: log, now: clock}
}

// Recalculate recalcula y persiste el total del agregado. Idempotente.
// Si el agregado no existe devuelve domain.ErrStaleAggregate sin escribir nada.
func (uc *RecalculateUseCase) Recalculate(ctx context.Context, restaurantID string, ref entity.AggregateRef) (decimal.Decimal, error) {
	if restaurantID == "" || ref.ID == "" || !ref.Kind.Valid() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	var total decimal.Decimal
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		t, err := Recalculate(ctx, repos.Aggregates, restaurantID, ref, uc.now())
		total = t
		return err
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("recalcular %s %s: %w", ref.Kind, ref.ID, err)
	}
	uc.log.Debug().
		Str("restaurant_id", restaurantID).
		Str("aggregate", string(ref.Kind)).
		Str("aggregate_id", ref.ID).
		Str("total", total.StringFixed(money.MoneyScale)).
		Msg("total recalculado")
	return total, nil
}
