package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
)

func newProductUseCase(t *testing.T) (*memory.Store, *usecase.ProductUseCase) {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Categories().Create(context.Background(), &entity.Category{ID: "k1", Name: "Abarrotes"}))
	return s, usecase.NewProductUseCase(s.Products(), s.Categories(), s.Invoices(), s.Movements())
}

func TestProductCreate_RegistraStockInicial(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Codigo: "A-001", Nombre: "Arroz 5kg", PrecioUnitario: decimal.RequireFromString("25.90"), Stock: 12, CategoriaID: "k1",
	})
	require.NoError(t, err)

	out, err := uc.ListMovements(ctx, p.ID, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, out.Items[0].Tipo)
	assert.Equal(t, 12, out.Items[0].Cantidad)
	assert.Equal(t, "stock inicial", out.Items[0].Referencia)
	assert.Nil(t, out.Items[0].FacturaID)
}

func TestProductCreate_SinStockNoRegistraMovimiento(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-002", Nombre: "Sal", CategoriaID: "k1"})
	require.NoError(t, err)

	out, err := uc.ListMovements(ctx, p.ID, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestProductUpdate_AjusteManualConDelta(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-001", Nombre: "Arroz", Stock: 10, CategoriaID: "k1"})
	require.NoError(t, err)

	stock := 7
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)

	name := "Arroz extra"
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Nombre: &name})
	require.NoError(t, err)

	out, err := uc.ListMovements(ctx, p.ID, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2, "cambiar el nombre no mueve stock")
	assert.Equal(t, -3, out.Items[0].Cantidad)
	assert.Equal(t, "ajuste manual", out.Items[0].Referencia)
}

func TestProductCreate_Validaciones(t *testing.T) {
	_, uc := newProductUseCase(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-001", Nombre: "Arroz", CategoriaID: "k1"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-001", Nombre: "Otro", CategoriaID: "k1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-003", Nombre: "Otro", CategoriaID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-004", Nombre: "Otro", Stock: -1, CategoriaID: "k1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Codigo: "A-005", Nombre: "Otro", PrecioUnitario: decimal.RequireFromString("-1"), CategoriaID: "k1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_ProductoInexistente(t *testing.T) {
	_, uc := newProductUseCase(t)
	_, err := uc.ListMovements(context.Background(), "nope", nil, nil, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
