package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Aggregates     repository.AggregateRepository
	LineItems      repository.LineItemRepository
	Invoices       repository.InvoiceRepository
	Orders         repository.OrderRepository
	DeliveryOrders repository.DeliveryOrderRepository
	Statuses       repository.OrderStatusRepository
	Discounts      repository.DiscountUsageRepository
}

// LedgerTxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil,
// Rollback en cualquier otro caso. Toda mutación de línea y su recálculo
// ocurren dentro de una sola llamada.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(repos TxRepos) error) error
}

// StatusChangedMessage notificación publicada después de confirmar una transición.
type StatusChangedMessage struct {
	RestaurantID string             `json:"restaurant_id"`
	OrderID      string             `json:"order_id"`
	OldStatus    entity.OrderStatus `json:"old_status"`
	NewStatus    entity.OrderStatus `json:"new_status"`
	ActorID      string             `json:"actor_id"`
	Comment      string             `json:"comment,omitempty"`
	ChangedAt    time.Time          `json:"changed_at"`
}

// StatusNotifier colaborador de visualización que consume el estado actual.
type StatusNotifier interface {
	PublishStatusChange(ctx context.Context, msg StatusChangedMessage) error
}

// clock hora UTC con resolución de microsegundos, la misma que guarda TIMESTAMPTZ.
func clock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
