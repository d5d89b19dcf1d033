package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Facturacion-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc            *appanalytics.DashboardUseCase
	replenishment *appanalytics.ReplenishmentUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, replenishment *appanalytics.ReplenishmentUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, replenishment: replenishment}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Conteos, ventas del día y del mes, saldo por cobrar y top 5 productos del mes.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos con stock <= umbral, priorizados por unidades vendidas en los últimos 30 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        umbral  query  int  false  "Stock máximo a considerar (default 5)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/reposicion [get]
func (h *DashboardHandler) Replenishment(c *fiber.Ctx) error {
	threshold := c.QueryInt("umbral", appanalytics.DefaultReorderThreshold)
	list, err := h.replenishment.GenerateList(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
