package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_RafagaYLuego429(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	app := fiber.New()
	app.Post("/login", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestRateLimiter_RecargaConElTiempo(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 1) // un token por segundo
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "cada IP tiene su bucket")

	now = now.Add(time.Second)
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_DescartaClientesInactivos(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 5)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")
	require.Equal(t, 2, rl.size())

	now = now.Add(limiterIdleTTL + limiterSweepInterval)
	rl.allow("10.0.0.3")
	assert.Equal(t, 1, rl.size())
}
