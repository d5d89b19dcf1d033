package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// InvoiceDetail representa una línea persistida de una factura.
// Pertenece a una sola factura y se guarda junto con ella.
type InvoiceDetail struct {
	ID        string
	InvoiceID string
	Position  int // orden de presentación, desde 1
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal // precio al momento de la venta
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}

// NewInvoiceDetail copia una línea validada en la entidad persistible.
func NewInvoiceDetail(id, invoiceID string, position int, li billing.LineItem) *InvoiceDetail {
	return &InvoiceDetail{
		ID:        id,
		InvoiceID: invoiceID,
		Position:  position,
		ProductID: li.ProductID(),
		Quantity:  li.Quantity(),
		UnitPrice: li.UnitPrice(),
		Discount:  li.Discount(),
		Subtotal:  li.Subtotal(),
	}
}
