package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// LineItem línea de detalle de factura como objeto de valor.
// El precio unitario es el vigente al momento de la venta, no se recalcula
// desde el producto.
type LineItem struct {
	productID string
	quantity  int
	unitPrice decimal.Decimal
	discount  decimal.Decimal
}

// NewLineItem valida y construye una línea.
// Falla con *domain.ValidationError si cantidad <= 0, precio < 0,
// descuento < 0, descuento con fracción de céntimo o descuento > cantidad × precio.
func NewLineItem(productID string, quantity int, unitPrice, discount decimal.Decimal) (LineItem, error) {
	if productID == "" {
		return LineItem{}, domain.NewValidationError("productoId", "requerido")
	}
	if quantity <= 0 {
		return LineItem{}, domain.NewValidationError("cantidad", "debe ser mayor que cero")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, domain.NewValidationError("precioUnitario", "no puede ser negativo")
	}
	if discount.IsNegative() {
		return LineItem{}, domain.NewValidationError("descuento", "no puede ser negativo")
	}
	if !discount.Equal(RoundCurrency(discount)) {
		return LineItem{}, domain.NewValidationError("descuento", "admite como máximo dos decimales")
	}
	if discount.GreaterThan(gross(quantity, unitPrice)) {
		return LineItem{}, domain.NewValidationError("descuento", "excede cantidad × precioUnitario")
	}
	return LineItem{
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
		discount:  discount,
	}, nil
}

func gross(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func (l LineItem) ProductID() string          { return l.productID }
func (l LineItem) Quantity() int              { return l.quantity }
func (l LineItem) UnitPrice() decimal.Decimal { return l.unitPrice }
func (l LineItem) Discount() decimal.Decimal  { return l.discount }

// Subtotal cantidad × precioUnitario − descuento, redondeado a céntimos.
func (l LineItem) Subtotal() decimal.Decimal {
	return RoundCurrency(gross(l.quantity, l.unitPrice).Sub(l.discount))
}
