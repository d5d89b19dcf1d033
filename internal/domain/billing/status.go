package billing

import "github.com/jhoicas/Facturacion-api/internal/domain"

// Status estado de una factura.
type Status string

const (
	StatusIssued Status = "emitida" // estado inicial
	StatusPaid   Status = "pagada"  // terminal
	StatusVoided Status = "anulada" // terminal
)

// Valid indica si s es uno de los estados conocidos.
func (s Status) Valid() bool {
	switch s {
	case StatusIssued, StatusPaid, StatusVoided:
		return true
	}
	return false
}

// Terminal indica si desde s no hay transiciones posibles.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusVoided
}

// Action operación que cambia el estado.
type Action string

const (
	ActionMarkPaid Action = "pagar"
	ActionVoid     Action = "anular"
)

// Transition calcula el estado destino de aplicar action sobre from.
// Solo se permite salir de "emitida"; cualquier otro intento retorna
// *domain.InvalidStateTransitionError.
func Transition(from Status, action Action) (Status, error) {
	if from != StatusIssued {
		return from, &domain.InvalidStateTransitionError{From: string(from), Action: string(action)}
	}
	switch action {
	case ActionMarkPaid:
		return StatusPaid, nil
	case ActionVoid:
		return StatusVoided, nil
	}
	return from, &domain.InvalidStateTransitionError{From: string(from), Action: string(action)}
}
