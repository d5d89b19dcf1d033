package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, series, number, customer_id, user_id, issue_date, due_date,
	subtotal, igv, discount, total, status, notes, version, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Llamar con la tx de RunBilling.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice, details []*entity.InvoiceDetail) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Series, inv.Number, inv.CustomerID, inv.UserID, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.IGV, inv.Discount, inv.Total, string(inv.Status), inv.Notes, inv.Version,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	const detailQuery = `
		INSERT INTO invoice_details (id, invoice_id, position, product_id, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(detailQuery, d.ID, d.InvoiceID, d.Position, d.ProductID, d.Quantity, d.UnitPrice, d.Discount, d.Subtotal)
	}
	if batch.Len() == 0 {
		return nil
	}
	sender, ok := r.q.(interface {
		SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	})
	if !ok {
		for _, d := range details {
			if _, err := r.q.Exec(ctx, detailQuery, d.ID, d.InvoiceID, d.Position, d.ProductID, d.Quantity, d.UnitPrice, d.Discount, d.Subtotal); err != nil {
				return fmt.Errorf("insert invoice detail: %w", err)
			}
		}
		return nil
	}
	br := sender.SendBatch(ctx, batch)
	for range details {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert invoice detail: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert invoice detail: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query, id string) (*entity.Invoice, error) {
	if !isUUID(id) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetDetailsByInvoiceID obtiene todas las líneas de una factura en orden.
func (r *InvoiceRepo) GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	if !isUUID(invoiceID) {
		return nil, nil
	}
	query := `
		SELECT id, invoice_id, position, product_id, quantity, unit_price, discount, subtotal
		FROM invoice_details WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceDetail
	for rows.Next() {
		var d entity.InvoiceDetail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.Position, &d.ProductID, &d.Quantity, &d.UnitPrice, &d.Discount, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// UpdateStatus actualización condicional: solo si estado y versión coinciden.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, from, to billing.Status, version int, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, version = version + 1, updated_at = $5
		WHERE id = $1 AND status = $3 AND version = $4`
	cmd, err := r.q.Exec(ctx, query, id, string(to), string(from), version, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// UpdateNotes actualiza observaciones y fecha de vencimiento.
func (r *InvoiceRepo) UpdateNotes(ctx context.Context, inv *entity.Invoice) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET notes = $2, due_date = $3, updated_at = $4 WHERE id = $1`,
		inv.ID, inv.Notes, inv.DueDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice notes: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "factura", ID: inv.ID}
	}
	return nil
}

// List lista facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	if f.CustomerID != "" && !isUUID(f.CustomerID) {
		return nil, nil
	}
	where, args := invoiceWhere(f)
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices %s ORDER BY issue_date DESC, series DESC, number DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Count total de facturas que cumplen el filtro (ignora Limit/Offset).
func (r *InvoiceRepo) Count(ctx context.Context, f repository.InvoiceFilter) (int, error) {
	if f.CustomerID != "" && !isUUID(f.CustomerID) {
		return 0, nil
	}
	where, args := invoiceWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// NextNumber reserva el siguiente correlativo. El UPDATE bloquea la fila de la
// serie hasta el commit, así dos emisiones nunca reciben el mismo número.
func (r *InvoiceRepo) NextNumber(ctx context.Context, series string) (int64, error) {
	query := `
		INSERT INTO invoice_series (series, last_number) VALUES ($1, 1)
		ON CONFLICT (series) DO UPDATE SET last_number = invoice_series.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, series).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// ExistsByCustomer indica si el cliente tiene facturas.
func (r *InvoiceRepo) ExistsByCustomer(ctx context.Context, customerID string) (bool, error) {
	if !isUUID(customerID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE customer_id = $1)`, customerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invoice by customer: %w", err)
	}
	return exists, nil
}

// ExistsByProduct indica si el producto aparece en alguna línea.
func (r *InvoiceRepo) ExistsByProduct(ctx context.Context, productID string) (bool, error) {
	if !isUUID(productID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoice_details WHERE product_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invoice by product: %w", err)
	}
	return exists, nil
}

func invoiceWhere(f repository.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.Series != "" {
		add("series = $%d", f.Series)
	}
	if f.From != nil {
		add("issue_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("issue_date <= $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.Series, &inv.Number, &inv.CustomerID, &inv.UserID, &inv.IssueDate, &inv.DueDate,
		&inv.Subtotal, &inv.IGV, &inv.Discount, &inv.Total, &status, &inv.Notes, &inv.Version,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = billing.Status(status)
	return &inv, nil
}
