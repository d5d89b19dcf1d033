package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

var now = time.Date(2026, 10, 18, 12, 0, 30, 0, time.UTC)

type mockSummaryCache struct {
	mock.Mock
}

func (m *mockSummaryCache) Get(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	args := m.Called(ctx, key)
	if s := args.Get(0); s != nil {
		return s.(*dto.DashboardSummaryDTO), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSummaryCache) Set(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error {
	args := m.Called(ctx, key, summary)
	return args.Error(0)
}

type sale struct {
	id, productID string
	qty           int
	total         string
	status        billing.Status
	issued        time.Time
}

// seedStore productos p1 (stock 2), p2 (stock 4), p3 (stock 50) y las ventas dadas.
func seedStore(t *testing.T, sales ...sale) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c1", DocumentType: entity.DocTypeDNI, DocumentNumber: "45678912"}))
	for _, p := range []entity.Product{
		{ID: "p1", Code: "A-001", Name: "Arroz", Stock: 2},
		{ID: "p2", Code: "B-001", Name: "Azúcar", Stock: 4},
		{ID: "p3", Code: "C-001", Name: "Café", Stock: 50},
	} {
		require.NoError(t, s.Products().Create(ctx, &p))
	}
	for i, sl := range sales {
		total := decimal.RequireFromString(sl.total)
		inv := &entity.Invoice{
			ID: sl.id, Series: "F001", Number: string(rune('1' + i)), CustomerID: "c1",
			IssueDate: sl.issued, Total: total, Status: sl.status, Version: 1,
		}
		details := []*entity.InvoiceDetail{{ID: sl.id + "-1", InvoiceID: sl.id, Position: 1, ProductID: sl.productID, Quantity: sl.qty, Subtotal: total}}
		require.NoError(t, s.Invoices().Create(ctx, inv, details))
	}
	return s
}

// ── GetSummary ───────────────────────────────────────────────────────────────

func TestGetSummary_CalculaYGuardaEnCache(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	s := seedStore(t,
		sale{"f1", "p1", 3, "118.00", billing.StatusIssued, today},
		sale{"f2", "p2", 1, "59.00", billing.StatusPaid, today.AddDate(0, 0, -10)},
		sale{"f3", "p1", 5, "200.00", billing.StatusVoided, today},
		sale{"f4", "p3", 9, "30.00", billing.StatusPaid, today.AddDate(0, -1, 0)},
	)
	cache := new(mockSummaryCache)
	key := "dashboard:2026-10-18T12:00"
	cache.On("Get", mock.Anything, key).Return(nil, nil).Once()
	cache.On("Set", mock.Anything, key, mock.AnythingOfType("*dto.DashboardSummaryDTO")).Return(nil).Once()

	uc := analytics.NewDashboardUseCase(s.Dashboard(), cache, logger.Nop()).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.TotalClientes)
	assert.Equal(t, 3, got.TotalProductos)
	assert.Equal(t, dto.InvoiceCountsDTO{Emitidas: 1, Pagadas: 2, Anuladas: 1}, got.Facturas)
	assert.Equal(t, "118.00", got.VentasHoy.Decimal().StringFixed(2), "la anulada no suma")
	assert.Equal(t, "177.00", got.VentasMes.Decimal().StringFixed(2))
	assert.Equal(t, "118.00", got.PorCobrar.Decimal().StringFixed(2))
	assert.Equal(t, "Octubre 2026", got.Periodo)
	require.Len(t, got.TopProductos, 2)
	assert.Equal(t, "p1", got.TopProductos[0].ProductoID)
	assert.Equal(t, 3, got.TopProductos[0].Cantidad)

	cache.AssertExpectations(t)
}

func TestGetSummary_UsaLaCache(t *testing.T) {
	cached := &dto.DashboardSummaryDTO{TotalClientes: 99, Periodo: "Octubre 2026"}
	cache := new(mockSummaryCache)
	cache.On("Get", mock.Anything, "dashboard:2026-10-18T12:00").Return(cached, nil).Once()

	uc := analytics.NewDashboardUseCase(seedStore(t).Dashboard(), cache, logger.Nop()).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Same(t, cached, got)

	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSummary_CacheCaidaNoBloquea(t *testing.T) {
	cache := new(mockSummaryCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis: connection refused"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))

	uc := analytics.NewDashboardUseCase(seedStore(t).Dashboard(), cache, logger.Nop()).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalProductos)
	assert.Empty(t, got.TopProductos)
}

func TestGetSummary_SinCache(t *testing.T) {
	uc := analytics.NewDashboardUseCase(seedStore(t).Dashboard(), nil, logger.Nop()).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.VentasHoy.Decimal().IsZero())
}
