package ledger

import (
	"github.com/jhoicas/resto-ledger/internal/application/dto"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

func toLineItemResponse(item entity.LineItem) *dto.LineItemResponse {
	p := item.Pricing()
	ref := item.Aggregate()
	resp := &dto.LineItemResponse{
		ID:            item.LineID(),
		Kind:          string(item.Kind()),
		AggregateKind: string(ref.Kind),
		AggregateID:   ref.ID,
		UnitPrice:     p.UnitPrice,
		Quantity:      p.Quantity,
		LineTotal:     p.LineTotal,
	}
	if m, ok := item.(*entity.OrderItemModifier); ok {
		resp.ParentItemID = m.OrderItemID
	}
	return resp
}

func toStatusEntryResponse(e *entity.OrderStatusEntry) dto.StatusEntryResponse {
	return dto.StatusEntryResponse{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Status:    string(e.Status),
		Comment:   e.Comment,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}

func toDiscountUsageResponse(u *entity.DiscountUsage) dto.DiscountUsageResponse {
	return dto.DiscountUsageResponse{
		ID:             u.ID,
		SourceKind:     string(u.SourceKind),
		SourceID:       u.SourceID,
		CustomerID:     u.CustomerID,
		OrderID:        u.OrderID,
		DiscountAmount: u.DiscountAmount,
		CreatedAt:      u.CreatedAt,
	}
}
