// Package analytics contiene el caso de uso del dashboard: conteos, ventas del
// día y del mes, saldo por cobrar y productos más vendidos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// SummaryCache cache del resumen. Get retorna (nil, nil) si no hay entrada.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error)
	Set(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error
}

// DashboardUseCase genera el resumen del día y del mes en curso.
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo  repository.DashboardRepository
	cache SummaryCache
	log   *logger.Logger
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repo repository.DashboardRepository, cache SummaryCache, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Consultas en paralelo:
//  1. conteos de clientes, productos y facturas por estado
//  2. GetSalesTotal(hoy) y GetSalesTotal(mes)
//  3. GetPendingTotal
//  4. GetTopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	key := "dashboard:" + now.Format("2006-01-02T15:04")

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err != nil {
			uc.log.Warn().Err(err).Msg("dashboard: lectura de cache fallida")
		} else if cached != nil {
			return cached, nil
		}
	}

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type countsResult struct {
		customers, products int
		byStatus            map[billing.Status]int
		err                 error
	}
	type amountResult struct {
		amount decimal.Decimal
		err    error
	}
	type topResult struct {
		items []repository.TopProductResult
		err   error
	}

	countsCh := make(chan countsResult, 1)
	todayCh := make(chan amountResult, 1)
	monthCh := make(chan amountResult, 1)
	pendingCh := make(chan amountResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		var r countsResult
		if r.customers, r.err = uc.repo.CountCustomers(ctx); r.err == nil {
			if r.products, r.err = uc.repo.CountProducts(ctx); r.err == nil {
				r.byStatus, r.err = uc.repo.CountInvoicesByStatus(ctx)
			}
		}
		countsCh <- r
	}()
	go func() {
		amt, err := uc.repo.GetSalesTotal(ctx, todayStart, todayEnd)
		todayCh <- amountResult{amt, err}
	}()
	go func() {
		amt, err := uc.repo.GetSalesTotal(ctx, monthStart, monthEnd)
		monthCh <- amountResult{amt, err}
	}()
	go func() {
		amt, err := uc.repo.GetPendingTotal(ctx)
		pendingCh <- amountResult{amt, err}
	}()
	go func() {
		items, err := uc.repo.GetTopProducts(ctx, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{items, err}
	}()

	counts := <-countsCh
	today := <-todayCh
	month := <-monthCh
	pending := <-pendingCh
	top := <-topCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos: %w", counts.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: por cobrar: %w", pending.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	topDTO := make([]dto.TopProductDTO, 0, len(top.items))
	for _, p := range top.items {
		topDTO = append(topDTO, dto.TopProductDTO{
			ProductoID: p.ProductID,
			Codigo:     p.Code,
			Nombre:     p.Name,
			Cantidad:   p.Quantity,
			Ingresos:   dto.NewMoney(billing.RoundCurrency(p.Revenue)),
		})
	}
	summary := &dto.DashboardSummaryDTO{
		TotalClientes:  counts.customers,
		TotalProductos: counts.products,
		Facturas: dto.InvoiceCountsDTO{
			Emitidas: counts.byStatus[billing.StatusIssued],
			Pagadas:  counts.byStatus[billing.StatusPaid],
			Anuladas: counts.byStatus[billing.StatusVoided],
		},
		VentasHoy:    dto.NewMoney(billing.RoundCurrency(today.amount)),
		VentasMes:    dto.NewMoney(billing.RoundCurrency(month.amount)),
		PorCobrar:    dto.NewMoney(billing.RoundCurrency(pending.amount)),
		TopProductos: topDTO,
		Periodo:      monthLabel(now),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, summary); err != nil {
			uc.log.Warn().Err(err).Msg("dashboard: escritura de cache fallida")
		}
	}
	return summary, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
