// Package cache guarda en Redis el resumen del dashboard.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// Connect crea el cliente y verifica la conexión con un PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: conexión: %w", err)
	}
	return rdb, nil
}

var _ analytics.SummaryCache = (*SummaryCache)(nil)

// SummaryCache implementa analytics.SummaryCache sobre Redis (JSON con TTL).
type SummaryCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewSummaryCache crea la cache. ttl <= 0 usa 60 segundos.
func NewSummaryCache(rdb redis.Cmdable, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

// Get retorna (nil, nil) si la clave no existe.
func (c *SummaryCache) Get(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("redis get %s: decodificar: %w", key, err)
	}
	return &out, nil
}

func (c *SummaryCache) Set(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis set %s: codificar: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
