package ledger

import "github.com/jhoicas/resto-ledger/internal/domain/entity"

// transitions tabla de adyacencia del ciclo de vida de una orden.
// ready -> delivering solo aplica a domicilios; ready -> completed solo a mesa y para llevar.
var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusNew:        {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed:  {entity.OrderStatusCooking, entity.OrderStatusCancelled},
	entity.OrderStatusCooking:    {entity.OrderStatusReady, entity.OrderStatusCancelled},
	entity.OrderStatusReady:      {entity.OrderStatusDelivering, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusDelivering: {entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusCompleted:  {},
	entity.OrderStatusCancelled:  {},
}

// CanTransition indica si una orden del tipo dado puede pasar de from a to.
func CanTransition(orderType entity.OrderType, from, to entity.OrderStatus) bool {
	if from == entity.OrderStatusReady {
		switch to {
		case entity.OrderStatusDelivering:
			return orderType == entity.OrderTypeDelivery
		case entity.OrderStatusCompleted:
			return orderType != entity.OrderTypeDelivery
		}
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses devuelve los estados alcanzables desde from para el tipo de orden.
func NextStatuses(orderType entity.OrderType, from entity.OrderStatus) []entity.OrderStatus {
	var out []entity.OrderStatus
	for _, s := range transitions[from] {
		if CanTransition(orderType, from, s) {
			out = append(out, s)
		}
	}
	return out
}
