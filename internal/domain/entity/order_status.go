package entity

import "time"

// OrderStatus estado del ciclo de vida de una orden.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusCooking    OrderStatus = "cooking"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid indica si el estado es conocido.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusCooking, OrderStatusReady,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal: completed y cancelled no admiten más transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderStatusEntry registro inmutable del historial de estados de una orden.
type OrderStatusEntry struct {
	ID           string
	RestaurantID string
	OrderID      string
	Status       OrderStatus
	Comment      string
	ActorID      string
	CreatedAt    time.Time
}
