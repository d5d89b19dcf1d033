// Package billing contiene las reglas de cálculo de una factura: líneas de
// detalle, totales (subtotal, IGV, descuento, total) y la máquina de estados.
// Todo el cálculo monetario usa aritmética decimal de punto fijo.
package billing

import "github.com/shopspring/decimal"

// CurrencyPlaces decimales de la unidad monetaria (céntimos de sol).
const CurrencyPlaces int32 = 2

// RoundCurrency redondea a céntimos, mitad hacia arriba.
// decimal.Round redondea la mitad alejándose de cero, que para montos no
// negativos coincide con half-up.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
