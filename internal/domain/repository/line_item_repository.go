package repository

import (
	"context"
	"time"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// LineItemRepository persistencia de las cuatro clases de línea.
// Las implementaciones despachan por el tipo concreto de entity.LineItem.
type LineItemRepository interface {
	Create(ctx context.Context, item entity.LineItem) error
	// Update persiste precio, cantidad y line_total de una línea viva; at queda como updated_at.
	Update(ctx context.Context, item entity.LineItem, at time.Time) error
	// Get devuelve nil, nil si la línea no existe o ya fue eliminada.
	Get(ctx context.Context, restaurantID string, kind entity.LineKind, id string) (entity.LineItem, error)
	// Delete elimina la línea (hard delete o tombstone según el tipo).
	// Un OrderItem eliminado arrastra a sus modificadores.
	Delete(ctx context.Context, restaurantID string, kind entity.LineKind, id string) error
	ListByAggregate(ctx context.Context, restaurantID string, ref entity.AggregateRef) ([]entity.LineItem, error)
}
