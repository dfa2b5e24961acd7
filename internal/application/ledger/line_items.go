package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/money"
	"github.com/jhoicas/resto-ledger/pkg/logger"
)

// LineItemUseCase altas, cambios y bajas de líneas. Cada mutación recalcula el
// total del agregado padre dentro de la misma transacción.
type LineItemUseCase struct {
	txRunner LedgerTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewLineItemUseCase construye el caso de uso.
func NewLineItemUseCase(txRunner LedgerTxRunner, log *logger.Logger) *LineItemUseCase {
	return &LineItemUseCase{txRunner: txRunner, log: log, now: clock}
}

// AddInvoiceItem agrega una línea a la factura.
func (uc *LineItemUseCase) AddInvoiceItem(ctx context.Context, restaurantID, invoiceID string, in dto.InvoiceItemRequest) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || invoiceID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.InvoiceItem{
		LinePricing:  entity.LinePricing{UnitPrice: in.UnitPrice, Quantity: in.Quantity},
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		InvoiceID:    invoiceID,
		ProductID:    in.ProductID,
		ExpiryDate:   in.ExpiryDate,
		BatchNumber:  in.BatchNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return uc.create(ctx, item)
}

// AddOrderItem agrega un plato a la orden.
func (uc *LineItemUseCase) AddOrderItem(ctx context.Context, restaurantID, orderID string, in dto.OrderItemRequest) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || orderID == "" || in.DishID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	item := &entity.OrderItem{
		LinePricing:  entity.LinePricing{UnitPrice: in.UnitPrice, Quantity: in.Quantity},
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		OrderID:      orderID,
		DishID:       in.DishID,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return uc.create(ctx, item)
}

// AddOrderItemModifier agrega un modificador a un ítem vivo de la orden.
func (uc *LineItemUseCase) AddOrderItemModifier(ctx context.Context, restaurantID, orderID, orderItemID string, in dto.OrderItemModifierRequest) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || orderID == "" || orderItemID == "" || in.ModifierID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	mod := &entity.OrderItemModifier{
		LinePricing:  entity.LinePricing{UnitPrice: in.UnitPrice, Quantity: in.Quantity},
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		OrderItemID:  orderItemID,
		ModifierID:   in.ModifierID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !mod.Valid() {
		return nil, domain.ErrInvalidInput
	}
	mod.Price()

	var resp *dto.LineMutationResponse
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		parent, err := repos.LineItems.Get(ctx, restaurantID, entity.LineOrderItem, orderItemID)
		if err != nil {
			return err
		}
		if parent == nil || parent.Aggregate().ID != orderID {
			return domain.ErrNotFound
		}
		ref := parent.Aggregate()
		if err := repos.Aggregates.LockForUpdate(ctx, restaurantID, ref); err != nil {
			return err
		}
		// el padre pudo eliminarse mientras esperábamos el lock
		parent, err = repos.LineItems.Get(ctx, restaurantID, entity.LineOrderItem, orderItemID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		mod.OrderID = ref.ID
		if err := repos.LineItems.Create(ctx, mod); err != nil {
			return err
		}
		resp, err = uc.finish(ctx, repos, restaurantID, ref, mod)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("agregar modificador: %w", err)
	}
	return resp, nil
}

// AddDeliveryOrderItem agrega una línea a la orden de domicilio. Los modificadores
// seleccionados se guardan como snapshot y no entran al total.
func (uc *LineItemUseCase) AddDeliveryOrderItem(ctx context.Context, restaurantID, deliveryOrderID string, in dto.DeliveryOrderItemRequest) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || deliveryOrderID == "" || in.DishID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	mods := make([]entity.SelectedModifier, 0, len(in.Modifiers))
	for _, m := range in.Modifiers {
		mods = append(mods, entity.SelectedModifier{ModifierID: m.ModifierID, Name: m.Name, PriceDelta: m.PriceDelta})
	}
	item := &entity.DeliveryOrderItem{
		LinePricing:     entity.LinePricing{UnitPrice: in.UnitPrice, Quantity: in.Quantity},
		ID:              uuid.New().String(),
		RestaurantID:    restaurantID,
		DeliveryOrderID: deliveryOrderID,
		DishID:          in.DishID,
		Name:            in.Name,
		Modifiers:       mods,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return uc.create(ctx, item)
}

// UpdateLineItem cambia precio y/o cantidad de una línea viva y recalcula.
func (uc *LineItemUseCase) UpdateLineItem(ctx context.Context, restaurantID string, kind entity.LineKind, id string, in dto.UpdateLineItemRequest) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || id == "" || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice == nil && in.Quantity == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && !money.ValidPrice(*in.UnitPrice) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && !money.ValidQuantity(*in.Quantity) {
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.LineMutationResponse
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		item, err := uc.lockLine(ctx, repos, restaurantID, kind, id)
		if err != nil {
			return err
		}
		p := item.Pricing()
		if in.UnitPrice != nil {
			p.UnitPrice = *in.UnitPrice
		}
		if in.Quantity != nil {
			p.Quantity = *in.Quantity
		}
		if !p.Valid() {
			return domain.ErrInvalidInput
		}
		p.Price()
		if err := repos.LineItems.Update(ctx, item, uc.now()); err != nil {
			return err
		}
		resp, err = uc.finish(ctx, repos, restaurantID, item.Aggregate(), item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar %s %s: %w", kind, id, err)
	}
	return resp, nil
}

// DeleteLineItem elimina la línea y recalcula. Eliminar un ítem de orden elimina sus modificadores.
func (uc *LineItemUseCase) DeleteLineItem(ctx context.Context, restaurantID string, kind entity.LineKind, id string) (*dto.LineMutationResponse, error) {
	if restaurantID == "" || id == "" || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var resp *dto.LineMutationResponse
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		item, err := uc.lockLine(ctx, repos, restaurantID, kind, id)
		if err != nil {
			return err
		}
		if err := repos.LineItems.Delete(ctx, restaurantID, kind, id); err != nil {
			return err
		}
		resp, err = uc.finish(ctx, repos, restaurantID, item.Aggregate(), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("eliminar %s %s: %w", kind, id, err)
	}
	return resp, nil
}

// create valida el precio, bloquea el agregado, inserta y recalcula.
func (uc *LineItemUseCase) create(ctx context.Context, item entity.LineItem) (*dto.LineMutationResponse, error) {
	p := item.Pricing()
	if !p.Valid() {
		return nil, domain.ErrInvalidInput
	}
	p.Price()
	ref := item.Aggregate()
	rid := item.Restaurant()

	var resp *dto.LineMutationResponse
	err := uc.txRunner.RunLedger(ctx, func(repos TxRepos) error {
		if err := repos.Aggregates.LockForUpdate(ctx, rid, ref); err != nil {
			return err
		}
		if err := repos.LineItems.Create(ctx, item); err != nil {
			return err
		}
		var err error
		resp, err = uc.finish(ctx, repos, rid, ref, item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("agregar %s a %s %s: %w", item.Kind(), ref.Kind, ref.ID, err)
	}
	return resp, nil
}

// lockLine lee la línea, bloquea su agregado y la relee bajo el lock.
func (uc *LineItemUseCase) lockLine(ctx context.Context, repos TxRepos, restaurantID string, kind entity.LineKind, id string) (entity.LineItem, error) {
	item, err := repos.LineItems.Get(ctx, restaurantID, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := repos.Aggregates.LockForUpdate(ctx, restaurantID, item.Aggregate()); err != nil {
		return nil, err
	}
	item, err = repos.LineItems.Get(ctx, restaurantID, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (uc *LineItemUseCase) finish(ctx context.Context, repos TxRepos, restaurantID string, ref entity.AggregateRef, item entity.LineItem) (*dto.LineMutationResponse, error) {
	total, err := Recalculate(ctx, repos.Aggregates, restaurantID, ref, uc.now())
	if err != nil {
		return nil, err
	}
	resp := &dto.LineMutationResponse{
		AggregateKind:  string(ref.Kind),
		AggregateID:    ref.ID,
		AggregateTotal: total,
	}
	if item != nil {
		resp.Item = toLineItemResponse(item)
	}
	uc.log.Debug().
		Str("restaurant_id", restaurantID).
		Str("aggregate", string(ref.Kind)).
		Str("aggregate_id", ref.ID).
		Str("total", total.StringFixed(money.MoneyScale)).
		Msg("línea aplicada")
	return resp, nil
}
