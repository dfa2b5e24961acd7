package repository

import (
	"context"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// OrderStatusRepository historial append-only de estados. No expone update ni delete.
type OrderStatusRepository interface {
	Append(ctx context.Context, entry *entity.OrderStatusEntry) error
	// Last devuelve la entrada más reciente (mayor created_at) o nil si no hay historial.
	Last(ctx context.Context, restaurantID, orderID string) (*entity.OrderStatusEntry, error)
	// ListByOrder devuelve el historial ordenado por created_at ascendente.
	ListByOrder(ctx context.Context, restaurantID, orderID string) ([]*entity.OrderStatusEntry, error)
}
