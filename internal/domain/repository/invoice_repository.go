package repository

import (
	"context"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para la cabecera de Invoice.
// Las líneas se manejan con LineItemRepository.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve nil, nil si la factura no existe en el restaurante.
	GetByID(ctx context.Context, restaurantID, id string) (*entity.Invoice, error)
}
