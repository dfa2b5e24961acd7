package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// aggregateTable tabla de cabecera por tipo de agregado (valores fijos, nunca input del usuario).
var aggregateTable = map[entity.AggregateKind]string{
	entity.AggregateInvoice:       "invoices",
	entity.AggregateOrder:         "orders",
	entity.AggregateDeliveryOrder: "delivery_orders",
}

// liveLineTotalsQuery line_total de las líneas vivas; los modificadores suman a la orden.
var liveLineTotalsQuery = map[entity.AggregateKind]string{
	entity.AggregateInvoice: `
		SELECT line_total FROM invoice_items
		WHERE restaurant_id = $1 AND invoice_id = $2`,
	entity.AggregateOrder: `
		SELECT line_total FROM order_items
		WHERE restaurant_id = $1 AND order_id = $2 AND deleted_at IS NULL
		UNION ALL
		SELECT line_total FROM order_item_modifiers
		WHERE restaurant_id = $1 AND order_id = $2 AND deleted_at IS NULL`,
	entity.AggregateDeliveryOrder: `
		SELECT line_total FROM delivery_order_items
		WHERE restaurant_id = $1 AND delivery_order_id = $2`,
}

// AggregateRepo acceso al total de los tres agregados.
type AggregateRepo struct {
	q Querier
}

// NewAggregateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAggregateRepository(q Querier) *AggregateRepo {
	return &AggregateRepo{q: q}
}

// LockForUpdate bloquea la fila del agregado hasta el fin de la transacción.
func (r *AggregateRepo) LockForUpdate(ctx context.Context, restaurantID string, ref entity.AggregateRef) error {
	table, ok := aggregateTable[ref.Kind]
	if !ok {
		return domain.ErrInvalidInput
	}
	query := `SELECT id FROM ` + table + ` WHERE restaurant_id = $1 AND id = $2 FOR UPDATE`
	var id string
	if err := r.q.QueryRow(ctx, query, restaurantID, ref.ID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrStaleAggregate
		}
		return fmt.Errorf("lock %s: %w", table, err)
	}
	return nil
}

// ListLiveLineTotals lee los line_total vivos del agregado.
func (r *AggregateRepo) ListLiveLineTotals(ctx context.Context, restaurantID string, ref entity.AggregateRef) ([]decimal.Decimal, error) {
	query, ok := liveLineTotalsQuery[ref.Kind]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	rows, err := r.q.Query(ctx, query, restaurantID, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list line totals: %w", err)
	}
	defer rows.Close()
	var out []decimal.Decimal
	for rows.Next() {
		var d decimal.Decimal
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetTotal escribe el total recalculado.
func (r *AggregateRepo) SetTotal(ctx context.Context, restaurantID string, ref entity.AggregateRef, total decimal.Decimal, at time.Time) error {
	table, ok := aggregateTable[ref.Kind]
	if !ok {
		return domain.ErrInvalidInput
	}
	query := `UPDATE ` + table + ` SET total = $3, updated_at = $4 WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, restaurantID, ref.ID, total, at)
	if err != nil {
		if isNumericOverflow(err) {
			return fmt.Errorf("%w: update %s total: %v", domain.ErrInvalidInput, table, err)
		}
		return fmt.Errorf("update %s total: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleAggregate
	}
	return nil
}
