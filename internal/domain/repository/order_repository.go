package repository

import (
	"context"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// OrderRepository puerto de persistencia de la cabecera de órdenes.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Order, error)
	// GetForUpdate obtiene la orden bloqueando su fila hasta el fin de la transacción.
	// Serializa transiciones de estado y aplicación de descuentos. nil, nil si no existe.
	GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Order, error)
}

// DeliveryOrderRepository puerto de persistencia de órdenes de domicilio.
type DeliveryOrderRepository interface {
	Create(ctx context.Context, order *entity.DeliveryOrder) error
	GetByID(ctx context.Context, restaurantID, id string) (*entity.DeliveryOrder, error)
}
