package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// DefaultIGVRate tasa general del IGV en Perú (18%).
var DefaultIGVRate = decimal.RequireFromString("0.18")

// Totals montos de cabecera derivados de las líneas.
type Totals struct {
	Subtotal decimal.Decimal
	IGV      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Compute deriva subtotal, IGV, descuento y total de una lista de líneas.
//
//	subtotal  = Σ línea.Subtotal()
//	igv       = round(subtotal × taxRate)
//	descuento = min(invoiceDiscount, subtotal + igv)
//	total     = subtotal + igv − descuento
//
// Con finalize=true una lista vacía es un error de validación.
func Compute(items []LineItem, invoiceDiscount, taxRate decimal.Decimal, finalize bool) (Totals, error) {
	if finalize && len(items) == 0 {
		return Totals{}, domain.NewValidationError("detalles", "la factura requiere al menos una línea")
	}
	if invoiceDiscount.IsNegative() {
		return Totals{}, domain.NewValidationError("descuento", "no puede ser negativo")
	}
	if !invoiceDiscount.Equal(RoundCurrency(invoiceDiscount)) {
		return Totals{}, domain.NewValidationError("descuento", "admite como máximo dos decimales")
	}
	if taxRate.IsNegative() {
		return Totals{}, domain.NewValidationError("igv", "tasa negativa")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	igv := RoundCurrency(subtotal.Mul(taxRate))
	gross := subtotal.Add(igv)

	discount := invoiceDiscount
	if discount.GreaterThan(gross) {
		discount = gross
	}

	return Totals{
		Subtotal: subtotal,
		IGV:      igv,
		Discount: discount,
		Total:    gross.Sub(discount),
	}, nil
}

// Calculator agrupa la tasa de IGV configurada.
type Calculator struct {
	TaxRate decimal.Decimal
}

// NewCalculator construye el calculador con la tasa dada.
func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{TaxRate: taxRate}
}

// Compute aplica Compute con la tasa del calculador.
func (c Calculator) Compute(items []LineItem, invoiceDiscount decimal.Decimal, finalize bool) (Totals, error) {
	return Compute(items, invoiceDiscount, c.TaxRate, finalize)
}
