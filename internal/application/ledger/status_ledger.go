package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/resto-ledger/internal/domain/ledger"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// StatusLedgerUseCase historial append-only de estados de órdenes.
// El estado actual es siempre la última entrada; no existe una columna de estado.
type StatusLedgerUseCase struct {
	txRunner LedgerTxRunner
	notifier StatusNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewStatusLedgerUseCase construye el caso de uso. notifier puede ser nil.
func NewStatusLedgerUseCase(txRunner LedgerTxRunner, notifier StatusNotifier, log *logger.Logger) *StatusLedgerUseCase {
	return &StatusLedgerUseCase{txRunner: txRunner, notifier: notifier, log: log, now: clock}
}

// Transition valida y agrega una nueva entrada al historial de la orden.
// La fila de la orden queda bloqueada durante la lectura de la cola y el insert,
// así dos transiciones concurrentes no pueden partir del mismo estado.
func (uc *StatusLedgerUseCase) Transition(ctx context.Context, restaurantID, orderID, actorID string, in dto.TransitionRequest) (*dto.StatusEntryResponse, error) {
	to := entity.OrderStatus(in.Status)
	if restaurantID == "" || orderID == "" || actorID == "" || !to.Valid() {
		return nil, domain.ErrInvalidInput
	}

	var entry *entity.OrderStatusEntry
	var from entity.OrderStatus
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		tail, err := repos.Statuses.Last(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if tail == nil {
			return domain.ErrNoHistory
		}
		from = tail.Status
		if !domainledger.CanTransition(order.Type, from, to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
		}
		at := uc.now()
		if !at.After(tail.CreatedAt) {
			// relojes con poca resolución: el orden por created_at debe ser total
			at = tail.CreatedAt.Add(time.Microsecond)
		}
		entry = &entity.OrderStatusEntry{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			OrderID:      orderID,
			Status:       to,
			Comment:      in.Comment,
			ActorID:      actorID,
			CreatedAt:    at,
		}
		return repos.Statuses.Append(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("transición de orden %s: %w", orderID, err)
	}

	uc.log.Info().
		Str("restaurant_id", restaurantID).
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor_id", actorID).
		Msg("estado de orden actualizado")
	uc.notify(ctx, from, entry)

	resp := toStatusEntryResponse(entry)
	return &resp, nil
}

// notify se ejecuta después del commit; un fallo no revierte el historial.
func (uc *StatusLedgerUseCase) notify(ctx context.Context, from entity.OrderStatus, entry *entity.OrderStatusEntry) {
	if uc.notifier == nil {
		return
	}
	msg := StatusChangedMessage{
		RestaurantID: entry.RestaurantID,
		OrderID:      entry.OrderID,
		OldStatus:    from,
		NewStatus:    entry.Status,
		ActorID:      entry.ActorID,
		Comment:      entry.Comment,
		ChangedAt:    entry.CreatedAt,
	}
	if err := uc.notifier.PublishStatusChange(ctx, msg); err != nil {
		uc.log.Warn().Err(err).Str("order_id", entry.OrderID).Msg("no se pudo publicar el cambio de estado")
	}
}

// CurrentStatus devuelve el estado de la entrada más reciente.
func (uc *StatusLedgerUseCase) CurrentStatus(ctx context.Context, restaurantID, orderID string) (*dto.CurrentStatusResponse, error) {
	if restaurantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var status entity.OrderStatus
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		order, err := repos.Orders.GetByID(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		tail, err := repos.Statuses.Last(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if tail == nil {
			return domain.ErrNoHistory
		}
		status = tail.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.CurrentStatusResponse{OrderID: orderID, Status: string(status)}, nil
}

// History devuelve el historial completo ordenado por created_at ascendente.
func (uc *StatusLedgerUseCase) History(ctx context.Context, restaurantID, orderID string) ([]dto.StatusEntryResponse, error) {
	if restaurantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var entries []*entity.OrderStatusEntry
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		order, err := repos.Orders.GetByID(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		entries, err = repos.Statuses.ListByOrder(ctx, restaurantID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStatusEntryResponse(e))
	}
	return out, nil
}
