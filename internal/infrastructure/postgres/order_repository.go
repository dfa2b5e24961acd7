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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, restaurant_id, customer_id, number, type, total, created_at, updated_at`

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.RestaurantID, nullIfEmpty(order.CustomerID), order.Number,
		string(order.Type), order.Total, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden sin bloquearla.
func (r *OrderRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE restaurant_id = $1 AND id = $2`, restaurantID, id)
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE restaurant_id = $1 AND id = $2 FOR UPDATE`, restaurantID, id)
}

func (r *OrderRepo) get(ctx context.Context, query, restaurantID, id string) (*entity.Order, error) {
	var o entity.Order
	var customerID *string
	var orderType string
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&o.ID, &o.RestaurantID, &customerID, &o.Number, &orderType,
		&o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.CustomerID = derefStr(customerID)
	o.Type = entity.OrderType(orderType)
	return &o, nil
}

var _ repository.DeliveryOrderRepository = (*DeliveryOrderRepo)(nil)

// DeliveryOrderRepo implementación de DeliveryOrderRepository sobre PostgreSQL.
type DeliveryOrderRepo struct {
	q Querier
}

// NewDeliveryOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryOrderRepository(q Querier) *DeliveryOrderRepo {
	return &DeliveryOrderRepo{q: q}
}

// Create persiste la orden de domicilio.
func (r *DeliveryOrderRepo) Create(ctx context.Context, do *entity.DeliveryOrder) error {
	query := `
		INSERT INTO delivery_orders (id, restaurant_id, customer_id, platform, external_ref, address, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		do.ID, do.RestaurantID, nullIfEmpty(do.CustomerID), do.Platform, do.ExternalRef,
		do.Address, do.Total, do.CreatedAt, do.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("delivery order already registered: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert delivery order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden de domicilio.
func (r *DeliveryOrderRepo) GetByID(ctx context.Context, restaurantID, id string) (*entity.DeliveryOrder, error) {
	query := `
		SELECT id, restaurant_id, customer_id, platform, external_ref, address, total, created_at, updated_at
		FROM delivery_orders WHERE restaurant_id = $1 AND id = $2`
	var do entity.DeliveryOrder
	var customerID *string
	err := r.q.QueryRow(ctx, query, restaurantID, id).Scan(
		&do.ID, &do.RestaurantID, &customerID, &do.Platform, &do.ExternalRef,
		&do.Address, &do.Total, &do.CreatedAt, &do.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery order: %w", err)
	}
	do.CustomerID = derefStr(customerID)
	return &do, nil
}
