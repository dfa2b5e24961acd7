package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

var _ repository.DiscountUsageRepository = (*DiscountUsageRepo)(nil)

// DiscountUsageRepo usos de descuento. La unicidad la garantiza uq_discount_usages_source_order.
type DiscountUsageRepo struct {
	q Querier
}

// NewDiscountUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountUsageRepository(q Querier) *DiscountUsageRepo {
	return &DiscountUsageRepo{q: q}
}

// Exists indica si el origen ya se aplicó a la orden.
func (r *DiscountUsageRepo) Exists(ctx context.Context, restaurantID string, kind entity.DiscountSourceKind, sourceID, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM discount_usages
			WHERE restaurant_id = $1 AND source_kind = $2 AND source_id = $3 AND order_id = $4
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, restaurantID, string(kind), sourceID, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists discount usage: %w", err)
	}
	return exists, nil
}

// Create inserta el uso; la violación del unique se traduce a ErrAlreadyApplied.
func (r *DiscountUsageRepo) Create(ctx context.Context, u *entity.DiscountUsage) error {
	query := `
		INSERT INTO discount_usages (id, restaurant_id, source_kind, source_id, customer_id, order_id, discount_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.RestaurantID, string(u.SourceKind), u.SourceID, u.CustomerID, u.OrderID, u.DiscountAmount, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyApplied
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert discount usage: %w", err)
	}
	return nil
}

// ListByOrder usos de la orden en orden de registro.
func (r *DiscountUsageRepo) ListByOrder(ctx context.Context, restaurantID, orderID string) ([]*entity.DiscountUsage, error) {
	query := `
		SELECT id, restaurant_id, source_kind, source_id, customer_id, order_id, discount_amount, created_at
		FROM discount_usages
		WHERE restaurant_id = $1 AND order_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, restaurantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list discount usages: %w", err)
	}
	defer rows.Close()
	var out []*entity.DiscountUsage
	for rows.Next() {
		var u entity.DiscountUsage
		var kind string
		if err := rows.Scan(&u.ID, &u.RestaurantID, &kind, &u.SourceID, &u.CustomerID, &u.OrderID, &u.DiscountAmount, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.SourceKind = entity.DiscountSourceKind(kind)
		out = append(out, &u)
	}
	return out, rows.Err()
}

// DeleteByOrder elimina los usos de la orden y devuelve cuántos borró.
func (r *DiscountUsageRepo) DeleteByOrder(ctx context.Context, restaurantID, orderID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM discount_usages WHERE restaurant_id = $1 AND order_id = $2`, restaurantID, orderID)
	if err != nil {
		return 0, fmt.Errorf("delete discount usages: %w", err)
	}
	return tag.RowsAffected(), nil
}
