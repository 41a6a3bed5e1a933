package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidAmount  = errors.New("monto inválido")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrChargeFailed   = errors.New("cobro rechazado por la pasarela")
	ErrReconciliation = errors.New("cobro aceptado pero no se pudo registrar el pago")
)

// NotFoundError identifica el recurso ausente (o fuera del tenant) y su ID.
// errors.Is(err, ErrNotFound) es true para cualquier NotFoundError.
type NotFoundError struct {
	Resource string
	ID       any
}

// NewNotFound construye un NotFoundError.
func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado con id: %v", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
