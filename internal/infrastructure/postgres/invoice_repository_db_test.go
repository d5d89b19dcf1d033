package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

// Estos tests corren solo con TEST_DATABASE_URL apuntando a un PostgreSQL
// desechable. Cada test trabaja dentro de una transacción que se descarta.
func beginTestTx(t *testing.T) (context.Context, pgx.Tx) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(ctx) })
	return ctx, tx
}

func seedInvoice(t *testing.T, ctx context.Context, tx pgx.Tx) *entity.Invoice {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)

	userID := uuid.NewString()
	_, err := tx.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, 'x', 'Vendedor', 'vendedor', 'active', $3, $3)`,
		userID, userID+"@example.com", now)
	require.NoError(t, err)

	customer := &entity.Customer{
		ID: uuid.NewString(), DocumentType: entity.DocTypeDNI, DocumentNumber: uuid.NewString()[:8],
		LegalName: "Cliente de prueba", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewCustomerRepository(tx).Create(ctx, customer))

	inv := &entity.Invoice{
		ID: uuid.NewString(), Series: "T901", Number: "00000001",
		CustomerID: customer.ID, UserID: userID, IssueDate: now,
		Subtotal: decimal.RequireFromString("100.00"), IGV: decimal.RequireFromString("18.00"),
		Discount: decimal.Zero, Total: decimal.RequireFromString("118.00"),
		Status: billing.StatusIssued, Version: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewInvoiceRepository(tx).Create(ctx, inv, nil))
	return inv
}

func TestInvoiceRepo_UpdateStatusCondicional(t *testing.T) {
	ctx, tx := beginTestTx(t)
	inv := seedInvoice(t, ctx, tx)
	repo := NewInvoiceRepository(tx)
	now := time.Now().UTC()

	err := repo.UpdateStatus(ctx, inv.ID, billing.StatusIssued, billing.StatusPaid, inv.Version+1, now)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict, "versión desactualizada")

	require.NoError(t, repo.UpdateStatus(ctx, inv.ID, billing.StatusIssued, billing.StatusPaid, inv.Version, now))

	err = repo.UpdateStatus(ctx, inv.ID, billing.StatusIssued, billing.StatusVoided, inv.Version+1, now)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict, "el estado ya no es emitida")

	got, err := repo.GetByIDForUpdate(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, billing.StatusPaid, got.Status)
	assert.Equal(t, inv.Version+1, got.Version)
}

func TestInvoiceRepo_NextNumberPorSerie(t *testing.T) {
	ctx, tx := beginTestTx(t)
	repo := NewInvoiceRepository(tx)

	for want := int64(1); want <= 3; want++ {
		n, err := repo.NextNumber(ctx, "T902")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := repo.NextNumber(ctx, "T903")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "cada serie lleva su propio correlativo")
}

func TestInvoiceRepo_ClienteReferenciado(t *testing.T) {
	ctx, tx := beginTestTx(t)
	inv := seedInvoice(t, ctx, tx)

	used, err := NewInvoiceRepository(tx).ExistsByCustomer(ctx, inv.CustomerID)
	require.NoError(t, err)
	assert.True(t, used)

	err = NewCustomerRepository(tx).Delete(ctx, inv.CustomerID)
	assert.ErrorIs(t, err, domain.ErrInUse)
}
