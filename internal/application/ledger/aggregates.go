package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// AggregateUseCase crea y consulta facturas, órdenes y órdenes de domicilio.
type AggregateUseCase struct {
	txRunner LedgerTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewAggregateUseCase construye el caso de uso.
func NewAggregateUseCase(txRunner LedgerTxRunner, log *logger.Logger) *AggregateUseCase {
	return &AggregateUseCase{txRunner: txRunner, log: log, now: clock}
}

// CreateInvoice crea la cabecera de la factura con total 0.00.
func (uc *AggregateUseCase) CreateInvoice(ctx context.Context, restaurantID string, in dto.CreateInvoiceRequest) (*dto.AggregateResponse, error) {
	if restaurantID == "" || in.SupplierID == "" || in.Number == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		SupplierID:   in.SupplierID,
		Number:       in.Number,
		Date:         date,
		Total:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		return repos.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("restaurant_id", restaurantID).Str("invoice_id", inv.ID).Msg("factura creada")
	return &dto.AggregateResponse{
		ID:           inv.ID,
		Kind:         string(entity.AggregateInvoice),
		RestaurantID: restaurantID,
		Number:       inv.Number,
		Total:        inv.Total,
		CreatedAt:    inv.CreatedAt,
		Items:        []dto.LineItemResponse{},
	}, nil
}

// CreateOrder crea la orden y siembra su primer estado "new" en la misma transacción.
func (uc *AggregateUseCase) CreateOrder(ctx context.Context, restaurantID, actorID string, in dto.CreateOrderRequest) (*dto.AggregateResponse, error) {
	orderType := entity.OrderType(in.Type)
	if restaurantID == "" || actorID == "" || !orderType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	id := uuid.New().String()
	number := in.Number
	if number == "" {
		number = "ORD-" + strings.ToUpper(id[:8])
	}
	order := &entity.Order{
		ID:           id,
		RestaurantID: restaurantID,
		CustomerID:   in.CustomerID,
		Number:       number,
		Type:         orderType,
		Total:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	seed := &entity.OrderStatusEntry{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		OrderID:      order.ID,
		Status:       entity.OrderStatusNew,
		ActorID:      actorID,
		CreatedAt:    now,
	}
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		return repos.Statuses.Append(ctx, seed)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("restaurant_id", restaurantID).Str("order_id", order.ID).Str("type", in.Type).Msg("orden creada")
	return &dto.AggregateResponse{
		ID:            order.ID,
		Kind:          string(entity.AggregateOrder),
		RestaurantID:  restaurantID,
		Number:        order.Number,
		Total:         order.Total,
		CurrentStatus: string(entity.OrderStatusNew),
		CreatedAt:     order.CreatedAt,
		Items:         []dto.LineItemResponse{},
	}, nil
}

// CreateDeliveryOrder registra una orden recibida desde una plataforma de domicilios.
func (uc *AggregateUseCase) CreateDeliveryOrder(ctx context.Context, restaurantID string, in dto.CreateDeliveryOrderRequest) (*dto.AggregateResponse, error) {
	if restaurantID == "" || in.Platform == "" || in.ExternalRef == "" || in.Address == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	do := &entity.DeliveryOrder{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		CustomerID:   in.CustomerID,
		Platform:     in.Platform,
		ExternalRef:  in.ExternalRef,
		Address:      in.Address,
		Total:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		return repos.DeliveryOrders.Create(ctx, do)
	})
	if err != nil {
		return nil, err
	}
	return &dto.AggregateResponse{
		ID:           do.ID,
		Kind:         string(entity.AggregateDeliveryOrder),
		RestaurantID: restaurantID,
		Number:       do.ExternalRef,
		Total:        do.Total,
		CreatedAt:    do.CreatedAt,
		Items:        []dto.LineItemResponse{},
	}, nil
}

// GetAggregate devuelve el agregado con su total persistido y sus líneas vivas.
func (uc *AggregateUseCase) GetAggregate(ctx context.Context, restaurantID string, ref entity.AggregateRef) (*dto.AggregateResponse, error) {
	if restaurantID == "" || ref.ID == "" || !ref.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	resp := &dto.AggregateResponse{ID: ref.ID, Kind: string(ref.Kind), RestaurantID: restaurantID}
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		switch ref.Kind {
		case entity.AggregateInvoice:
			inv, err := repos.Invoices.GetByID(ctx, restaurantID, ref.ID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.ErrNotFound
			}
			resp.Number, resp.Total, resp.CreatedAt = inv.Number, inv.Total, inv.CreatedAt
		case entity.AggregateOrder:
			order, err := repos.Orders.GetByID(ctx, restaurantID, ref.ID)
			if err != nil {
				return err
			}
			if order == nil {
				return domain.ErrNotFound
			}
			resp.Number, resp.Total, resp.CreatedAt = order.Number, order.Total, order.CreatedAt
			last, err := repos.Statuses.Last(ctx, restaurantID, ref.ID)
			if err != nil {
				return err
			}
			if last != nil {
				resp.CurrentStatus = string(last.Status)
			}
		case entity.AggregateDeliveryOrder:
			do, err := repos.DeliveryOrders.GetByID(ctx, restaurantID, ref.ID)
			if err != nil {
				return err
			}
			if do == nil {
				return domain.ErrNotFound
			}
			resp.Number, resp.Total, resp.CreatedAt = do.ExternalRef, do.Total, do.CreatedAt
		}
		items, err := repos.LineItems.ListByAggregate(ctx, restaurantID, ref)
		if err != nil {
			return err
		}
		resp.Items = make([]dto.LineItemResponse, 0, len(items))
		for _, it := range items {
			resp.Items = append(resp.Items, *toLineItemResponse(it))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
