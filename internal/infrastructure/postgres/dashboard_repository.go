package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el dashboard.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) CountCustomers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM customers`)
}

func (r *DashboardRepo) CountProducts(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products`)
}

func (r *DashboardRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard count: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountInvoicesByStatus(ctx context.Context) (map[billing.Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM invoices GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices by status: %w", err)
	}
	defer rows.Close()
	out := map[billing.Status]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan invoices by status: %w", err)
		}
		out[billing.Status(status)] = n
	}
	return out, rows.Err()
}

// GetSalesTotal suma facturas no anuladas emitidas en [start, end].
func (r *DashboardRepo) GetSalesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total), 0)
	FROM invoices
	WHERE issue_date BETWEEN $1::date AND $2::date
	  AND status <> 'anulada'`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("dashboard sales total: %w", err)
	}
	return total, nil
}

func (r *DashboardRepo) GetPendingTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'emitida'`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("dashboard pending total: %w", err)
	}
	return total, nil
}

// GetTopProducts ranking por unidades vendidas en facturas no anuladas.
func (r *DashboardRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id::text,
	    p.code,
	    p.name,
	    SUM(d.quantity)  AS units_sold,
	    SUM(d.subtotal)  AS revenue
	FROM invoices i
	JOIN invoice_details d ON d.invoice_id = i.id
	JOIN products       p  ON p.id         = d.product_id
	WHERE i.issue_date BETWEEN $1::date AND $2::date
	  AND i.status <> 'anulada'
	GROUP BY p.id, p.code, p.name
	ORDER BY units_sold DESC, p.id
	LIMIT NULLIF($3, 0)`
	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard top products: %w", err)
	}
	defer rows.Close()
	var out []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.Code, &t.Name, &t.Quantity, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) GetLowStockProducts(ctx context.Context, threshold int) ([]repository.LowStockResult, error) {
	const query = `
	SELECT id::text, code, name, stock
	FROM products
	WHERE stock <= $1
	ORDER BY stock, code`
	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard low stock: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockResult
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.ProductID, &l.Code, &l.Name, &l.Stock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
