package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

type lineItemRepo struct{ s *Store }

func (r *lineItemRepo) Create(_ context.Context, item entity.LineItem) error {
	st := r.s.st
	switch it := item.(type) {
	case *entity.InvoiceItem:
		if _, ok := st.invoices[it.InvoiceID]; !ok {
			return domain.ErrStaleAggregate
		}
		st.invoiceItems[it.ID] = *it
	case *entity.OrderItem:
		if _, ok := st.orders[it.OrderID]; !ok {
			return domain.ErrStaleAggregate
		}
		st.orderItems[it.ID] = *it
	case *entity.OrderItemModifier:
		parent, ok := st.orderItems[it.OrderItemID]
		if !ok || parent.OrderID != it.OrderID {
			return domain.ErrStaleAggregate
		}
		st.modifiers[it.ID] = *it
	case *entity.DeliveryOrderItem:
		if _, ok := st.deliveryOrders[it.DeliveryOrderID]; !ok {
			return domain.ErrStaleAggregate
		}
		st.deliveryItems[it.ID] = *it
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func (r *lineItemRepo) Update(ctx context.Context, item entity.LineItem, at time.Time) error {
	current, err := r.Get(ctx, item.Restaurant(), item.Kind(), item.LineID())
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	p := item.Pricing()
	st := r.s.st
	switch v := current.(type) {
	case *entity.InvoiceItem:
		v.UnitPrice, v.Quantity, v.LineTotal, v.UpdatedAt = p.UnitPrice, p.Quantity, p.LineTotal, at
		st.invoiceItems[v.ID] = *v
	case *entity.OrderItem:
		v.UnitPrice, v.Quantity, v.LineTotal, v.UpdatedAt = p.UnitPrice, p.Quantity, p.LineTotal, at
		st.orderItems[v.ID] = *v
	case *entity.OrderItemModifier:
		v.UnitPrice, v.Quantity, v.LineTotal, v.UpdatedAt = p.UnitPrice, p.Quantity, p.LineTotal, at
		st.modifiers[v.ID] = *v
	case *entity.DeliveryOrderItem:
		v.UnitPrice, v.Quantity, v.LineTotal, v.UpdatedAt = p.UnitPrice, p.Quantity, p.LineTotal, at
		st.deliveryItems[v.ID] = *v
	}
	return nil
}

func (r *lineItemRepo) Get(_ context.Context, restaurantID string, kind entity.LineKind, id string) (entity.LineItem, error) {
	st := r.s.st
	switch kind {
	case entity.LineInvoiceItem:
		if v, ok := st.invoiceItems[id]; ok && v.RestaurantID == restaurantID {
			return &v, nil
		}
	case entity.LineOrderItem:
		if v, ok := st.orderItems[id]; ok && v.RestaurantID == restaurantID && v.DeletedAt == nil {
			return &v, nil
		}
	case entity.LineOrderItemModifier:
		if v, ok := st.modifiers[id]; ok && v.RestaurantID == restaurantID && v.DeletedAt == nil {
			return &v, nil
		}
	case entity.LineDeliveryOrderItem:
		if v, ok := st.deliveryItems[id]; ok && v.RestaurantID == restaurantID {
			return &v, nil
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	return nil, nil
}

func (r *lineItemRepo) Delete(ctx context.Context, restaurantID string, kind entity.LineKind, id string) error {
	current, err := r.Get(ctx, restaurantID, kind, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	st := r.s.st
	now := time.Now()
	switch v := current.(type) {
	case *entity.InvoiceItem:
		delete(st.invoiceItems, v.ID)
	case *entity.DeliveryOrderItem:
		delete(st.deliveryItems, v.ID)
	case *entity.OrderItemModifier:
		v.DeletedAt, v.UpdatedAt = &now, now
		st.modifiers[v.ID] = *v
	case *entity.OrderItem:
		for mid, m := range st.modifiers {
			if m.OrderItemID == v.ID && m.DeletedAt == nil {
				m.DeletedAt, m.UpdatedAt = &now, now
				st.modifiers[mid] = m
			}
		}
		v.DeletedAt, v.UpdatedAt = &now, now
		st.orderItems[v.ID] = *v
	}
	return nil
}

func (r *lineItemRepo) ListByAggregate(_ context.Context, restaurantID string, ref entity.AggregateRef) ([]entity.LineItem, error) {
	st := r.s.st
	var out []entity.LineItem
	switch ref.Kind {
	case entity.AggregateInvoice:
		for _, v := range sortedByCreation(st.invoiceItems, func(v entity.InvoiceItem) (time.Time, string) { return v.CreatedAt, v.ID }) {
			if v.RestaurantID == restaurantID && v.InvoiceID == ref.ID {
				out = append(out, &v)
			}
		}
	case entity.AggregateOrder:
		for _, v := range sortedByCreation(st.orderItems, func(v entity.OrderItem) (time.Time, string) { return v.CreatedAt, v.ID }) {
			if v.RestaurantID == restaurantID && v.OrderID == ref.ID && v.DeletedAt == nil {
				out = append(out, &v)
			}
		}
		for _, v := range sortedByCreation(st.modifiers, func(v entity.OrderItemModifier) (time.Time, string) { return v.CreatedAt, v.ID }) {
			if v.RestaurantID == restaurantID && v.OrderID == ref.ID && v.DeletedAt == nil {
				out = append(out, &v)
			}
		}
	case entity.AggregateDeliveryOrder:
		for _, v := range sortedByCreation(st.deliveryItems, func(v entity.DeliveryOrderItem) (time.Time, string) { return v.CreatedAt, v.ID }) {
			if v.RestaurantID == restaurantID && v.DeliveryOrderID == ref.ID {
				out = append(out, &v)
			}
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	return out, nil
}

// sortedByCreation valores del mapa ordenados por (created_at, id), igual que el ORDER BY de PostgreSQL.
func sortedByCreation[T any](m map[string]T, key func(T) (time.Time, string)) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, idi := key(out[i])
		tj, idj := key(out[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
	return out
}
