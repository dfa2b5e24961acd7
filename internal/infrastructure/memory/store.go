// Package memory implementa los repositorios del ledger en memoria. Lo usan los
// tests y el modo STORAGE_DRIVER=memory. Las transacciones se serializan con un
// mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

var _ ledger.LedgerTxRunner = (*Store)(nil)

type state struct {
	invoices       map[string]entity.Invoice
	orders         map[string]entity.Order
	deliveryOrders map[string]entity.DeliveryOrder
	invoiceItems   map[string]entity.InvoiceItem
	orderItems     map[string]entity.OrderItem
	modifiers      map[string]entity.OrderItemModifier
	deliveryItems  map[string]entity.DeliveryOrderItem
	statuses       []entity.OrderStatusEntry
	discounts      []entity.DiscountUsage
}

func newState() *state {
	return &state{
		invoices:       make(map[string]entity.Invoice),
		orders:         make(map[string]entity.Order),
		deliveryOrders: make(map[string]entity.DeliveryOrder),
		invoiceItems:   make(map[string]entity.InvoiceItem),
		orderItems:     make(map[string]entity.OrderItem),
		modifiers:      make(map[string]entity.OrderItemModifier),
		deliveryItems:  make(map[string]entity.DeliveryOrderItem),
	}
}

// clone copia superficial: las entidades se guardan por valor y sus punteros
// (DeletedAt, ExpiryDate) se reemplazan, nunca se mutan.
func (s *state) clone() *state {
	return &state{
		invoices:       maps.Clone(s.invoices),
		orders:         maps.Clone(s.orders),
		deliveryOrders: maps.Clone(s.deliveryOrders),
		invoiceItems:   maps.Clone(s.invoiceItems),
		orderItems:     maps.Clone(s.orderItems),
		modifiers:      maps.Clone(s.modifiers),
		deliveryItems:  maps.Clone(s.deliveryItems),
		statuses:       slices.Clone(s.statuses),
		discounts:      slices.Clone(s.discounts),
	}
}

// Store almacén en memoria. Una sola transacción a la vez.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// RunLedger ejecuta fn con acceso exclusivo al estado; si fn falla, el estado vuelve
// a como estaba antes de la llamada.
func (s *Store) RunLedger(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos() ledger.TxRepos {
	return ledger.TxRepos{
		Aggregates:     &aggregateRepo{s: s},
		LineItems:      &lineItemRepo{s: s},
		Invoices:       &invoiceRepo{s: s},
		Orders:         &orderRepo{s: s},
		DeliveryOrders: &deliveryOrderRepo{s: s},
		Statuses:       &statusRepo{s: s},
		Discounts:      &discountRepo{s: s},
	}
}
