package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas. Campos vacíos no filtran.
type InvoiceFilter struct {
	Status     billing.Status
	CustomerID string
	Series     string
	From       *time.Time // fecha de emisión desde (inclusive)
	To         *time.Time // fecha de emisión hasta (inclusive)
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus detalles.
type InvoiceRepository interface {
	// Create persiste cabecera y detalles. Ejecutar dentro de BillingTxRunner
	// para que ambos queden en la misma transacción.
	Create(ctx context.Context, invoice *entity.Invoice, details []*entity.InvoiceDetail) error
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error)
	// UpdateStatus cambia el estado solo si la fila sigue en `from` con la versión
	// esperada; en otro caso retorna domain.ErrConcurrencyConflict.
	UpdateStatus(ctx context.Context, id string, from, to billing.Status, version int, updatedAt time.Time) error
	// UpdateNotes actualiza observaciones y fecha de vencimiento (únicos campos editables).
	UpdateNotes(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int, error)
	// NextNumber reserva el siguiente correlativo de la serie.
	NextNumber(ctx context.Context, series string) (int64, error)
	ExistsByCustomer(ctx context.Context, customerID string) (bool, error)
	ExistsByProduct(ctx context.Context, productID string) (bool, error)
}
