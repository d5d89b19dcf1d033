package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Con un id que no es UUID los repos responden "no encontrado" sin tocar la
// base: el Querier nil haría fallar cualquier consulta.
func TestRepos_IDMalFormadoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()

	inv, err := NewInvoiceRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, inv)

	inv, err = NewInvoiceRepository(nil).GetByIDForUpdate(ctx, "F001-00000001")
	require.NoError(t, err)
	assert.Nil(t, inv)

	details, err := NewInvoiceRepository(nil).GetDetailsByInvoiceID(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, details)

	c, err := NewCustomerRepository(nil).GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, c)

	p, err := NewProductRepository(nil).GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, p)

	cat, err := NewCategoryRepository(nil).GetByID(ctx, "cat1")
	require.NoError(t, err)
	assert.Nil(t, cat)

	u, err := NewUserRepository(nil).GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, u)

	movs, err := NewStockMovementRepository(nil).ListByProduct(ctx, "x", nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRepos_ReferenciasMalFormadas(t *testing.T) {
	ctx := context.Background()
	invoices := NewInvoiceRepository(nil)

	used, err := invoices.ExistsByCustomer(ctx, "x")
	require.NoError(t, err)
	assert.False(t, used)

	used, err = invoices.ExistsByProduct(ctx, "x")
	require.NoError(t, err)
	assert.False(t, used)

	used, err = NewProductRepository(nil).ExistsByCategory(ctx, "x")
	require.NoError(t, err)
	assert.False(t, used)

	list, err := invoices.List(ctx, repository.InvoiceFilter{CustomerID: "x"})
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := invoices.Count(ctx, repository.InvoiceFilter{CustomerID: "x"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("0b7f7c3e-1d2a-4c55-9a10-3f6e2d1c0a01"))
	assert.False(t, isUUID(""))
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID("0b7f7c3e-1d2a-4c55-9a10-3f6e2d1c0a0"))
}
