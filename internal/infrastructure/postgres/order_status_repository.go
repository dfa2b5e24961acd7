package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.OrderStatusRepository = (*OrderStatusRepo)(nil)

// OrderStatusRepo historial de estados sobre order_status_history. Solo INSERT y SELECT.
type OrderStatusRepo struct {
	q Querier
}

// NewOrderStatusRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderStatusRepository(q Querier) *OrderStatusRepo {
	return &OrderStatusRepo{q: q}
}

const statusColumns = `id, restaurant_id, order_id, status, comment, actor_id, created_at`

// Append agrega una entrada al historial.
func (r *OrderStatusRepo) Append(ctx context.Context, e *entity.OrderStatusEntry) error {
	query := `
		INSERT INTO order_status_history (` + statusColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.RestaurantID, e.OrderID, string(e.Status), nullIfEmpty(e.Comment), e.ActorID, e.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order status: %w", err)
	}
	return nil
}

// Last entrada más reciente. seq desempata entradas con el mismo created_at.
func (r *OrderStatusRepo) Last(ctx context.Context, restaurantID, orderID string) (*entity.OrderStatusEntry, error) {
	query := `
		SELECT ` + statusColumns + ` FROM order_status_history
		WHERE restaurant_id = $1 AND order_id = $2
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`
	e, err := scanStatusEntry(r.q.QueryRow(ctx, query, restaurantID, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last order status: %w", err)
	}
	return e, nil
}

// ListByOrder historial ascendente.
func (r *OrderStatusRepo) ListByOrder(ctx context.Context, restaurantID, orderID string) ([]*entity.OrderStatusEntry, error) {
	query := `
		SELECT ` + statusColumns + ` FROM order_status_history
		WHERE restaurant_id = $1 AND order_id = $2
		ORDER BY created_at ASC, seq ASC`
	rows, err := r.q.Query(ctx, query, restaurantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order status: %w", err)
	}
	defer rows.Close()
	var out []*entity.OrderStatusEntry
	for rows.Next() {
		e, err := scanStatusEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanStatusEntry(row pgx.Row) (*entity.OrderStatusEntry, error) {
	var e entity.OrderStatusEntry
	var status string
	var comment *string
	if err := row.Scan(&e.ID, &e.RestaurantID, &e.OrderID, &status, &comment, &e.ActorID, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = entity.OrderStatus(status)
	e.Comment = derefStr(comment)
	return &e, nil
}
