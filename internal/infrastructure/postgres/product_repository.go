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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, unit_price, stock, category_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.UnitPrice, p.Stock, p.CategoryID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode obtiene un producto por su código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente (el código no cambia).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, unit_price = $4, stock = $5, category_id = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.UnitPrice, p.Stock, p.CategoryID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock en una sola sentencia; la condición evita
// dejarlo negativo aunque haya ventas concurrentes.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID string, delta int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 AND stock + $2 >= 0`,
		productID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if !exists {
			return &domain.NotFoundError{Resource: "producto", ID: productID}
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// List lista productos por nombre; categoryID vacío no filtra.
func (r *ProductRepo) List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR category_id::text = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ExistsByCategory indica si algún producto pertenece a la categoría.
func (r *ProductRepo) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	if !isUUID(categoryID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product by category: %w", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.UnitPrice, &p.Stock, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
