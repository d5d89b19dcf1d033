package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de fecha del contrato externo.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Fields solo viene en errores de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Money monto serializado como número JSON con dos decimales (no como string).
type Money decimal.Decimal

// NewMoney convierte un decimal en Money.
func NewMoney(d decimal.Decimal) Money { return Money(d) }

// Decimal devuelve el valor subyacente.
func (m Money) Decimal() decimal.Decimal { return decimal.Decimal(m) }

// MarshalJSON escribe el monto como número. Conserva los decimales extra de un
// precio unitario que no sea múltiplo de céntimo.
func (m Money) MarshalJSON() ([]byte, error) {
	d := decimal.Decimal(m)
	if !d.Equal(d.Round(2)) {
		return []byte(d.String()), nil
	}
	return []byte(d.StringFixed(2)), nil
}

// UnmarshalJSON acepta número o string numérico.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// FormatTimestamp formato "YYYY-MM-DD HH:mm:ss".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// FormatDatePtr fecha opcional como "YYYY-MM-DD" o nil.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
