package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// Invoice representa la cabecera de una factura.
// Los campos monetarios se fijan al crearla y no cambian después; solo
// Status, Notes y DueDate se modifican.
type Invoice struct {
	ID         string
	Number     string // correlativo, ej. "00000042"
	Series     string // ej. "F001"
	CustomerID string
	UserID     string // usuario emisor
	IssueDate  time.Time
	DueDate    *time.Time
	Subtotal   decimal.Decimal
	IGV        decimal.Decimal
	Discount   decimal.Decimal // descuento global, aparte de los de línea
	Total      decimal.Decimal
	Status     billing.Status
	Notes      *string
	Version    int // control optimista de concurrencia
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullNumber serie y correlativo, ej. "F001-00000042".
func (i *Invoice) FullNumber() string {
	return i.Series + "-" + i.Number
}

// ApplyTotals copia los montos calculados a la cabecera.
func (i *Invoice) ApplyTotals(t billing.Totals) {
	i.Subtotal = t.Subtotal
	i.IGV = t.IGV
	i.Discount = t.Discount
	i.Total = t.Total
}

// MarkPaid registra el pago. Solo válido desde "emitida".
func (i *Invoice) MarkPaid(now time.Time) error {
	return i.apply(billing.ActionMarkPaid, now)
}

// Void anula la factura. Solo válido desde "emitida".
func (i *Invoice) Void(now time.Time) error {
	return i.apply(billing.ActionVoid, now)
}

func (i *Invoice) apply(action billing.Action, now time.Time) error {
	next, err := billing.Transition(i.Status, action)
	if err != nil {
		return err
	}
	i.Status = next
	i.Version++
	i.UpdatedAt = now
	return nil
}
