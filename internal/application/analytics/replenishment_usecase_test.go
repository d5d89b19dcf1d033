package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

func TestGenerateList_PriorizaPorVentas(t *testing.T) {
	recent := now.AddDate(0, 0, -3)
	s := seedStore(t,
		sale{"f1", "p2", 12, "120.00", billing.StatusPaid, recent},
		sale{"f2", "p1", 1, "10.00", billing.StatusIssued, recent},
		// anulada y fuera de ventana no cuentan
		sale{"f3", "p1", 40, "400.00", billing.StatusVoided, recent},
		sale{"f4", "p1", 30, "300.00", billing.StatusPaid, now.AddDate(0, 0, -45)},
	)
	uc := analytics.NewReplenishmentUseCase(s.Dashboard()).WithClock(func() time.Time { return now })

	list, err := uc.GenerateList(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 2, "p3 tiene stock sobre el umbral")

	assert.Equal(t, "p2", list[0].ProductoID)
	assert.Equal(t, 1, list[0].Prioridad)
	assert.Equal(t, 12, list[0].Vendidos30Dias)
	assert.Equal(t, 12, list[0].StockIdeal)
	assert.Equal(t, 8, list[0].CantidadSugerida)

	assert.Equal(t, "p1", list[1].ProductoID)
	assert.Equal(t, 2, list[1].Prioridad)
	assert.Equal(t, 1, list[1].Vendidos30Dias)
	assert.Equal(t, 10, list[1].StockIdeal)
	assert.Equal(t, 8, list[1].CantidadSugerida)
}

func TestGenerateList_SinVentasOrdenaPorSugeridoYCodigo(t *testing.T) {
	uc := analytics.NewReplenishmentUseCase(seedStore(t).Dashboard()).WithClock(func() time.Time { return now })

	list, err := uc.GenerateList(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"A-001", "B-001"}, []string{list[0].Codigo, list[1].Codigo})
	assert.Equal(t, 6, list[0].CantidadSugerida)
	assert.Equal(t, 4, list[1].CantidadSugerida)
}

func TestGenerateList_UmbralCeroYNegativo(t *testing.T) {
	uc := analytics.NewReplenishmentUseCase(seedStore(t).Dashboard())

	list, err := uc.GenerateList(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = uc.GenerateList(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
