package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInUse                  = errors.New("el recurso está referenciado por facturas")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrConcurrencyConflict    = errors.New("la factura fue modificada por otra operación")
)

// ValidationError dato de entrada mal formado o fuera de rango.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

// Is permite comparar contra ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un *ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidStateTransitionError cambio de estado ilegal (ej. pagar una factura anulada).
type InvalidStateTransitionError struct {
	From   string
	Action string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("no se puede %s una factura en estado %s", e.Action, e.From)
}

// Is permite comparar contra ErrInvalidStateTransition.
func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// NotFoundError referencia a un cliente, producto o factura inexistente.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

// Is permite comparar contra ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
