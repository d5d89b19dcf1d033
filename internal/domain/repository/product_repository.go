package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock. Retorna domain.ErrInsufficientStock si el
	// resultado sería negativo.
	AdjustStock(ctx context.Context, productID string, delta int) error
	List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, error)
	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
	Delete(ctx context.Context, id string) error
}
