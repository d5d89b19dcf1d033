package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, document_type, document_number, legal_name, address, phone, email, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.DocumentType, c.DocumentNumber, c.LegalName, c.Address, c.Phone, c.Email,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetByDocumentNumber obtiene un cliente por número de documento.
func (r *CustomerRepo) GetByDocumentNumber(ctx context.Context, number string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE document_number = $1`, number)
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por razón social; search filtra por nombre o documento.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE $1 = '' OR legal_name ILIKE '%' || $1 || '%' OR document_number LIKE $1 || '%'
		ORDER BY legal_name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET document_type = $2, document_number = $3, legal_name = $4, address = $5,
		    phone = $6, email = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.DocumentType, c.DocumentNumber, c.LegalName, c.Address, c.Phone, c.Email, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Si tiene facturas, la FK lo impide.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.DocumentType, &c.DocumentNumber, &c.LegalName, &c.Address, &c.Phone, &c.Email,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
