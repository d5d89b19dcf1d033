package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeOut        = "SALIDA"  // venta facturada
	MovementTypeIn         = "ENTRADA" // reposición por anulación
	MovementTypeAdjustment = "AJUSTE"  // cambio manual del stock
)

// StockMovement registro de un cambio de stock de un producto (kardex).
type StockMovement struct {
	ID        string
	ProductID string
	InvoiceID *string // nil en ajustes manuales
	Type      string
	Quantity  int    // con signo: negativo en salidas
	Reference string // ej. "F001-00000012"
	CreatedAt time.Time
	CreatedBy string // UserID; vacío si no se conoce
}
