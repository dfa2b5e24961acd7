package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/money"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// DiscountUseCase registra el uso de códigos promocionales y promociones.
// Un mismo origen se aplica a lo sumo una vez por orden.
type DiscountUseCase struct {
	txRunner LedgerTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewDiscountUseCase construye el caso de uso.
func NewDiscountUseCase(txRunner LedgerTxRunner, log *logger.Logger) *DiscountUseCase {
	return &DiscountUseCase{txRunner: txRunner, log: log, now: clock}
}

// ApplyDiscount registra el descuento sobre la orden. El monto ya viene calculado
// y debe estar entre 0 y el total actual de la orden.
func (uc *DiscountUseCase) ApplyDiscount(ctx context.Context, restaurantID, orderID string, in dto.ApplyDiscountRequest) (*dto.DiscountUsageResponse, error) {
	kind := entity.DiscountSourceKind(in.SourceKind)
	if restaurantID == "" || orderID == "" || in.SourceID == "" || in.CustomerID == "" || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !money.FitsMoney(in.Amount) {
		return nil, domain.ErrInvalidDiscountAmount
	}

	usage := &entity.DiscountUsage{
		ID:             uuid.New().String(),
		RestaurantID:   restaurantID,
		SourceKind:     kind,
		SourceID:       in.SourceID,
		CustomerID:     in.CustomerID,
		OrderID:        orderID,
		DiscountAmount: in.Amount,
	}
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
		if tail.Status.Terminal() {
			return fmt.Errorf("%w: orden en estado %s", domain.ErrConflict, tail.Status)
		}
		if in.Amount.IsNegative() || in.Amount.GreaterThan(order.Total) {
			return domain.ErrInvalidDiscountAmount
		}
		exists, err := repos.Discounts.Exists(ctx, restaurantID, kind, in.SourceID, orderID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyApplied
		}
		usage.CreatedAt = uc.now()
		return repos.Discounts.Create(ctx, usage)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			uc.log.Debug().Str("order_id", orderID).Str("source_id", in.SourceID).Msg("descuento repetido rechazado")
		}
		return nil, fmt.Errorf("aplicar descuento %s/%s: %w", kind, in.SourceID, err)
	}
	uc.log.Info().
		Str("restaurant_id", restaurantID).
		Str("order_id", orderID).
		Str("source_kind", string(kind)).
		Str("source_id", in.SourceID).
		Str("amount", in.Amount.StringFixed(money.MoneyScale)).
		Msg("descuento aplicado")
	resp := toDiscountUsageResponse(usage)
	return &resp, nil
}

// ListDiscountUsages lista los descuentos registrados sobre la orden.
func (uc *DiscountUseCase) ListDiscountUsages(ctx context.Context, restaurantID, orderID string) ([]dto.DiscountUsageResponse, error) {
	if restaurantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var usages []*entity.DiscountUsage
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		order, err := repos.Orders.GetByID(ctx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		usages, err = repos.Discounts.ListByOrder(ctx, restaurantID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscountUsageResponse, 0, len(usages))
	for _, u := range usages {
		out = append(out, toDiscountUsageResponse(u))
	}
	return out, nil
}

// RevokeDiscounts elimina los usos de una orden anulada. Es la única vía que
// borra usos; para cualquier otro estado devuelve domain.ErrConflict.
func (uc *DiscountUseCase) RevokeDiscounts(ctx context.Context, restaurantID, orderID string) (*dto.RevokeDiscountsResponse, error) {
	if restaurantID == "" || orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var revoked int64
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
		if tail == nil || tail.Status != entity.OrderStatusCancelled {
			return fmt.Errorf("%w: solo se revocan descuentos de órdenes anuladas", domain.ErrConflict)
		}
		revoked, err = repos.Discounts.DeleteByOrder(ctx, restaurantID, orderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("revocar descuentos de orden %s: %w", orderID, err)
	}
	uc.log.Info().Str("order_id", orderID).Int64("revoked", revoked).Msg("descuentos revocados")
	return &dto.RevokeDiscountsResponse{OrderID: orderID, Revoked: revoked}, nil
}
