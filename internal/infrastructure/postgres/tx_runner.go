package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
)

var _ ledger.LedgerTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newTxRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func newTxRepos(q Querier) ledger.TxRepos {
	return ledger.TxRepos{
		Aggregates:     NewAggregateRepository(q),
		LineItems:      NewLineItemRepository(q),
		Invoices:       NewInvoiceRepository(q),
		Orders:         NewOrderRepository(q),
		DeliveryOrders: NewDeliveryOrderRepository(q),
		Statuses:       NewOrderStatusRepository(q),
		Discounts:      NewDiscountUsageRepository(q),
	}
}
