package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/resto-ledger/internal/domain"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

type statusRepo struct{ s *Store }

func (r *statusRepo) Append(_ context.Context, e *entity.OrderStatusEntry) error {
	st := r.s.st
	if _, ok := st.orders[e.OrderID]; !ok {
		return domain.ErrNotFound
	}
	st.statuses = append(st.statuses, *e)
	return nil
}

// Last con created_at empatado gana la entrada agregada después.
func (r *statusRepo) Last(_ context.Context, restaurantID, orderID string) (*entity.OrderStatusEntry, error) {
	var last *entity.OrderStatusEntry
	for i := range r.s.st.statuses {
		e := r.s.st.statuses[i]
		if e.RestaurantID != restaurantID || e.OrderID != orderID {
			continue
		}
		if last == nil || !e.CreatedAt.Before(last.CreatedAt) {
			last = &e
		}
	}
	return last, nil
}

func (r *statusRepo) ListByOrder(_ context.Context, restaurantID, orderID string) ([]*entity.OrderStatusEntry, error) {
	var out []*entity.OrderStatusEntry
	for _, e := range r.s.st.statuses {
		if e.RestaurantID == restaurantID && e.OrderID == orderID {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type discountRepo struct{ s *Store }

func (r *discountRepo) Exists(_ context.Context, restaurantID string, kind entity.DiscountSourceKind, sourceID, orderID string) (bool, error) {
	for _, u := range r.s.st.discounts {
		if u.RestaurantID == restaurantID && u.SourceKind == kind && u.SourceID == sourceID && u.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *discountRepo) Create(ctx context.Context, u *entity.DiscountUsage) error {
	exists, _ := r.Exists(ctx, u.RestaurantID, u.SourceKind, u.SourceID, u.OrderID)
	if exists {
		return domain.ErrAlreadyApplied
	}
	if _, ok := r.s.st.orders[u.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.discounts = append(r.s.st.discounts, *u)
	return nil
}

func (r *discountRepo) ListByOrder(_ context.Context, restaurantID, orderID string) ([]*entity.DiscountUsage, error) {
	var out []*entity.DiscountUsage
	for _, u := range r.s.st.discounts {
		if u.RestaurantID == restaurantID && u.OrderID == orderID {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *discountRepo) DeleteByOrder(_ context.Context, restaurantID, orderID string) (int64, error) {
	var kept []entity.DiscountUsage
	var n int64
	for _, u := range r.s.st.discounts {
		if u.RestaurantID == restaurantID && u.OrderID == orderID {
			n++
			continue
		}
		kept = append(kept, u)
	}
	r.s.st.discounts = kept
	return n, nil
}
