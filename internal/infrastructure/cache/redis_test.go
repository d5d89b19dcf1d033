package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/cache"
)

// Requiere un Redis real: REDIS_TEST_ADDR=localhost:6379
func setupCache(t *testing.T) *cache.SummaryCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	rdb, err := cache.Connect(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewSummaryCache(rdb, 5*time.Second)
}

func TestSummaryCache_SetGet(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()
	key := "dashboard:test:" + time.Now().Format(time.RFC3339Nano)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "clave inexistente")

	in := &dto.DashboardSummaryDTO{
		TotalClientes: 3,
		VentasMes:     dto.NewMoney(decimal.RequireFromString("289.10")),
		Periodo:       "Octubre 2026",
	}
	require.NoError(t, c.Set(ctx, key, in))

	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.TotalClientes)
	assert.Equal(t, "Octubre 2026", got.Periodo)
	assert.True(t, got.VentasMes.Decimal().Equal(decimal.RequireFromString("289.10")))
}
