package memory

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	st := r.s.st
	if _, ok := st.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.invoices {
		if other.RestaurantID == inv.RestaurantID && other.SupplierID == inv.SupplierID && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	st.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Invoice, error) {
	inv, ok := r.s.st.invoices[id]
	if !ok || inv.RestaurantID != restaurantID {
		return nil, nil
	}
	return &inv, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	st := r.s.st
	if _, ok := st.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.orders {
		if other.RestaurantID == o.RestaurantID && other.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	st.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Order, error) {
	o, ok := r.s.st.orders[id]
	if !ok || o.RestaurantID != restaurantID {
		return nil, nil
	}
	return &o, nil
}

// GetForUpdate: el mutex del Store ya da exclusión total.
func (r *orderRepo) GetForUpdate(ctx context.Context, restaurantID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, restaurantID, id)
}

type deliveryOrderRepo struct{ s *Store }

func (r *deliveryOrderRepo) Create(_ context.Context, do *entity.DeliveryOrder) error {
	st := r.s.st
	if _, ok := st.deliveryOrders[do.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.deliveryOrders {
		if other.RestaurantID == do.RestaurantID && other.Platform == do.Platform && other.ExternalRef == do.ExternalRef {
			return domain.ErrDuplicate
		}
	}
	st.deliveryOrders[do.ID] = *do
	return nil
}

func (r *deliveryOrderRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.DeliveryOrder, error) {
	do, ok := r.s.st.deliveryOrders[id]
	if !ok || do.RestaurantID != restaurantID {
		return nil, nil
	}
	return &do, nil
}

type aggregateRepo struct{ s *Store }

func (r *aggregateRepo) exists(restaurantID string, ref entity.AggregateRef) (bool, error) {
	st := r.s.st
	switch ref.Kind {
	case entity.AggregateInvoice:
		v, ok := st.invoices[ref.ID]
		return ok && v.RestaurantID == restaurantID, nil
	case entity.AggregateOrder:
		v, ok := st.orders[ref.ID]
		return ok && v.RestaurantID == restaurantID, nil
	case entity.AggregateDeliveryOrder:
		v, ok := st.deliveryOrders[ref.ID]
		return ok && v.RestaurantID == restaurantID, nil
	}
	return false, domain.ErrInvalidInput
}

func (r *aggregateRepo) LockForUpdate(_ context.Context, restaurantID string, ref entity.AggregateRef) error {
	ok, err := r.exists(restaurantID, ref)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrStaleAggregate
	}
	return nil
}

func (r *aggregateRepo) ListLiveLineTotals(_ context.Context, restaurantID string, ref entity.AggregateRef) ([]decimal.Decimal, error) {
	st := r.s.st
	var out []decimal.Decimal
	switch ref.Kind {
	case entity.AggregateInvoice:
		for _, it := range st.invoiceItems {
			if it.RestaurantID == restaurantID && it.InvoiceID == ref.ID {
				out = append(out, it.LineTotal)
			}
		}
	case entity.AggregateOrder:
		for _, it := range st.orderItems {
			if it.RestaurantID == restaurantID && it.OrderID == ref.ID && it.DeletedAt == nil {
				out = append(out, it.LineTotal)
			}
		}
		for _, m := range st.modifiers {
			if m.RestaurantID == restaurantID && m.OrderID == ref.ID && m.DeletedAt == nil {
				out = append(out, m.LineTotal)
			}
		}
	case entity.AggregateDeliveryOrder:
		for _, it := range st.deliveryItems {
			if it.RestaurantID == restaurantID && it.DeliveryOrderID == ref.ID {
				out = append(out, it.LineTotal)
			}
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	return out, nil
}

func (r *aggregateRepo) SetTotal(_ context.Context, restaurantID string, ref entity.AggregateRef, total decimal.Decimal, at time.Time) error {
	st := r.s.st
	switch ref.Kind {
	case entity.AggregateInvoice:
		v, ok := st.invoices[ref.ID]
		if !ok || v.RestaurantID != restaurantID {
			return domain.ErrStaleAggregate
		}
		v.Total, v.UpdatedAt = total, at
		st.invoices[ref.ID] = v
	case entity.AggregateOrder:
		v, ok := st.orders[ref.ID]
		if !ok || v.RestaurantID != restaurantID {
			return domain.ErrStaleAggregate
		}
		v.Total, v.UpdatedAt = total, at
		st.orders[ref.ID] = v
	case entity.AggregateDeliveryOrder:
		v, ok := st.deliveryOrders[ref.ID]
		if !ok || v.RestaurantID != restaurantID {
			return domain.ErrStaleAggregate
		}
		v.Total, v.UpdatedAt = total, at
		st.deliveryOrders[ref.ID] = v
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// DeleteAggregate elimina el agregado con sus líneas, historial y descuentos,
// como el ON DELETE CASCADE del esquema. Lo usan los tests de agregado obsoleto.
func (s *Store) DeleteAggregate(restaurantID string, ref entity.AggregateRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st
	switch ref.Kind {
	case entity.AggregateInvoice:
		if v, ok := st.invoices[ref.ID]; ok && v.RestaurantID == restaurantID {
			delete(st.invoices, ref.ID)
			for id, it := range st.invoiceItems {
				if it.InvoiceID == ref.ID {
					delete(st.invoiceItems, id)
				}
			}
		}
	case entity.AggregateOrder:
		if v, ok := st.orders[ref.ID]; ok && v.RestaurantID == restaurantID {
			delete(st.orders, ref.ID)
			for id, it := range st.orderItems {
				if it.OrderID == ref.ID {
					delete(st.orderItems, id)
				}
			}
			for id, m := range st.modifiers {
				if m.OrderID == ref.ID {
					delete(st.modifiers, id)
				}
			}
			st.statuses = slices.DeleteFunc(st.statuses, func(e entity.OrderStatusEntry) bool { return e.OrderID == ref.ID })
			st.discounts = slices.DeleteFunc(st.discounts, func(u entity.DiscountUsage) bool { return u.OrderID == ref.ID })
		}
	case entity.AggregateDeliveryOrder:
		if v, ok := st.deliveryOrders[ref.ID]; ok && v.RestaurantID == restaurantID {
			delete(st.deliveryOrders, ref.ID)
			for id, it := range st.deliveryItems {
				if it.DeliveryOrderID == ref.ID {
					delete(st.deliveryItems, id)
				}
			}
		}
	}
}
