package repository

import (
	"context"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// DiscountUsageRepository registros de uso de códigos promocionales y promociones.
type DiscountUsageRepository interface {
	Exists(ctx context.Context, restaurantID string, kind entity.DiscountSourceKind, sourceID, orderID string) (bool, error)
	// Create inserta el uso. Devuelve domain.ErrAlreadyApplied si ya existe
	// uno para (kind, sourceID, orderID).
	Create(ctx context.Context, usage *entity.DiscountUsage) error
	ListByOrder(ctx context.Context, restaurantID, orderID string) ([]*entity.DiscountUsage, error)
	DeleteByOrder(ctx context.Context, restaurantID, orderID string) (int64, error)
}
