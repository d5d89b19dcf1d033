package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, invoice_id, type, quantity, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.InvoiceID, m.Type, m.Quantity, m.Reference, m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	query := `
		SELECT id, product_id, invoice_id, type, quantity, reference, created_at, created_by
		FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.InvoiceID, &m.Type,
			&m.Quantity, &m.Reference, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
