package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// TopProductResult resultado crudo del ranking de productos vendidos.
type TopProductResult struct {
	ProductID string
	Code      string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal // suma de subtotales de línea
}

// LowStockResult producto con stock en o bajo el umbral.
type LowStockResult struct {
	ProductID string
	Code      string
	Name      string
	Stock     int
}

// DashboardRepository consultas de solo lectura para el dashboard.
// Las facturas anuladas no cuentan como venta.
type DashboardRepository interface {
	CountCustomers(ctx context.Context) (int, error)
	CountProducts(ctx context.Context) (int, error)
	CountInvoicesByStatus(ctx context.Context) (map[billing.Status]int, error)
	// GetSalesTotal suma el total de facturas emitidas o pagadas en el rango.
	GetSalesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	// GetPendingTotal suma el total de facturas emitidas aún no pagadas.
	GetPendingTotal(ctx context.Context) (decimal.Decimal, error)
	// GetTopProducts limit 0 devuelve todos los productos vendidos en el rango.
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)
	// GetLowStockProducts productos con stock <= threshold, menor stock primero.
	GetLowStockProducts(ctx context.Context, threshold int) ([]LowStockResult, error)
}
