package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DefaultReorderThreshold umbral de stock usado cuando el request no trae uno.
const DefaultReorderThreshold = 5

const salesWindow = 30 * 24 * time.Hour

// ReplenishmentUseCase genera la lista de reposición: productos con stock bajo,
// priorizados por lo vendido en los últimos 30 días.
type ReplenishmentUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso.
func NewReplenishmentUseCase(repo repository.DashboardRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repo: repo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReplenishmentUseCase) WithClock(now func() time.Time) *ReplenishmentUseCase {
	uc.now = now
	return uc
}

// GenerateList devuelve los productos con stock <= threshold.
//
// Stock ideal = máx(2 × umbral, unidades vendidas en 30 días); la cantidad
// sugerida cubre la diferencia con el stock actual. Orden: más vendidos
// primero, luego mayor cantidad sugerida, luego código.
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context, threshold int) ([]dto.ReplenishmentSuggestionDTO, error) {
	if threshold < 0 {
		return nil, domain.NewValidationError("umbral", "no puede ser negativo")
	}

	// 1. Productos en o bajo el umbral
	low, err := uc.repo.GetLowStockProducts(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("reposición: stock bajo: %w", err)
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Ventas recientes por producto (facturas no anuladas)
	end := uc.now()
	sold, err := uc.repo.GetTopProducts(ctx, end.Add(-salesWindow), end, 0)
	if err != nil {
		return nil, fmt.Errorf("reposición: ventas: %w", err)
	}
	soldByID := make(map[string]int, len(sold))
	for _, s := range sold {
		soldByID[s.ProductID] = s.Quantity
	}

	// 3. Sugerencias
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, item := range low {
		units := soldByID[item.ProductID]
		ideal := max(2*threshold, units)
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductoID:       item.ProductID,
			Codigo:           item.Code,
			Nombre:           item.Name,
			StockActual:      item.Stock,
			Vendidos30Dias:   units,
			StockIdeal:       ideal,
			CantidadSugerida: max(ideal-item.Stock, 0),
		})
	}

	// 4. Orden y prioridad
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Vendidos30Dias != b.Vendidos30Dias {
			return a.Vendidos30Dias > b.Vendidos30Dias
		}
		if a.CantidadSugerida != b.CantidadSugerida {
			return a.CantidadSugerida > b.CantidadSugerida
		}
		return a.Codigo < b.Codigo
	})
	for i := range out {
		out[i].Prioridad = i + 1
	}
	return out, nil
}
