package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
)

func seedInvoice(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	ctx := context.Background()
	inv := &entity.Invoice{
		ID: id, Series: "F001", Number: "00000001", CustomerID: "c1", UserID: "u1",
		IssueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Total:     decimal.RequireFromString("118.00"),
		Status:    billing.StatusIssued, Version: 1,
	}
	details := []*entity.InvoiceDetail{{ID: "d1", InvoiceID: id, Position: 1, ProductID: "p1", Quantity: 2}}
	require.NoError(t, s.Invoices().Create(ctx, inv, details))
}

// ── UpdateStatus condicional ─────────────────────────────────────────────────

func TestUpdateStatus_ExigeEstadoYVersion(t *testing.T) {
	s := memory.NewStore()
	seedInvoice(t, s, "f1")
	ctx := context.Background()
	repo := s.Invoices()

	err := repo.UpdateStatus(ctx, "f1", billing.StatusIssued, billing.StatusPaid, 1, time.Now())
	require.NoError(t, err)

	// segunda escritura con la versión vieja pierde
	err = repo.UpdateStatus(ctx, "f1", billing.StatusIssued, billing.StatusVoided, 1, time.Now())
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	inv, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, inv.Status)
	assert.Equal(t, 2, inv.Version)
}

func TestUpdateStatus_FacturaInexistente(t *testing.T) {
	s := memory.NewStore()
	err := s.Invoices().UpdateStatus(context.Background(), "nope", billing.StatusIssued, billing.StatusPaid, 1, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── RunBilling ───────────────────────────────────────────────────────────────

func TestRunBilling_RollbackAnteError(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Code: "A", Stock: 5}))

	boom := errors.New("boom")
	err := s.RunBilling(ctx, func(
		inv repository.InvoiceRepository,
		prod repository.ProductRepository,
		_ repository.CustomerRepository,
		mov repository.StockMovementRepository,
	) error {
		if _, err := inv.NextNumber(ctx, "F001"); err != nil {
			return err
		}
		if err := prod.AdjustStock(ctx, "p1", -3); err != nil {
			return err
		}
		if err := mov.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeOut, Quantity: -3}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock, "stock restaurado")

	n, err := s.Invoices().NextNumber(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "correlativo restaurado")

	movs, err := s.Movements().ListByProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "kardex restaurado")
}

// ── Kardex ───────────────────────────────────────────────────────────────────

func TestMovements_ListByProductFiltraYOrdena(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, pid := range []string{"p1", "p2", "p1", "p1"} {
		m := &entity.StockMovement{
			ID: string(rune('a' + i)), ProductID: pid, Type: entity.MovementTypeOut,
			Quantity: -1, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.Movements().Create(ctx, m))
	}

	list, err := s.Movements().ListByProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "d", list[0].ID, "más reciente primero")

	from := base.Add(90 * time.Minute)
	list, err = s.Movements().ListByProduct(ctx, "p1", &from, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"d", "c"}, []string{list[0].ID, list[1].ID})
}

func TestProductDelete_BorraSuKardex(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Code: "A"}))
	require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: 4}))

	require.NoError(t, s.Products().Delete(ctx, "p1"))
	list, err := s.Movements().ListByProduct(ctx, "p1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_ReferenciasBloqueanBorrado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "cat1", Name: "General"}))
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c1", DocumentNumber: "12345678"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Code: "A", CategoryID: "cat1"}))
	seedInvoice(t, s, "f1")

	// el repo rechaza aunque el llamador no haya consultado antes
	assert.ErrorIs(t, s.Customers().Delete(ctx, "c1"), domain.ErrInUse)
	assert.ErrorIs(t, s.Products().Delete(ctx, "p1"), domain.ErrInUse)
	assert.ErrorIs(t, s.Categories().Delete(ctx, "cat1"), domain.ErrConflict)

	c, err := s.Customers().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestAdjustStock_NoPermiteNegativo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Code: "A", Stock: 1}))

	err := s.Products().AdjustStock(ctx, "p1", -2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ── Listados ─────────────────────────────────────────────────────────────────

func TestInvoiceList_FiltraYPagina(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	for i, st := range []billing.Status{billing.StatusIssued, billing.StatusPaid, billing.StatusIssued} {
		inv := &entity.Invoice{
			ID: string(rune('a' + i)), Series: "F001", Number: string(rune('1' + i)),
			IssueDate: time.Date(2026, 10, i+1, 0, 0, 0, 0, time.UTC), Status: st, Version: 1,
		}
		require.NoError(t, s.Invoices().Create(ctx, inv, nil))
	}

	list, err := s.Invoices().List(ctx, repository.InvoiceFilter{Status: billing.StatusIssued})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID, "más reciente primero")

	n, err := s.Invoices().Count(ctx, repository.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := s.Invoices().List(ctx, repository.InvoiceFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)
}

func TestCustomerCreate_DocumentoDuplicado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "1", DocumentNumber: "12345678"}))
	err := s.Customers().Create(ctx, &entity.Customer{ID: "2", DocumentNumber: "12345678"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
