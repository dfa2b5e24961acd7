package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del ledger de pedidos y facturas. Todos son recuperables y se
// devuelven al caller sin reintentos internos.
var (
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
	ErrNoHistory             = errors.New("la orden no tiene historial de estados")
	ErrStaleAggregate        = errors.New("el agregado ya no existe")
	ErrAlreadyApplied        = errors.New("el descuento ya fue aplicado a la orden")
	ErrInvalidDiscountAmount = errors.New("monto de descuento fuera de rango")
)
