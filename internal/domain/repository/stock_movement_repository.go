package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del kardex.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct lista los movimientos de un producto, más recientes primero.
	// from y to son opcionales.
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
