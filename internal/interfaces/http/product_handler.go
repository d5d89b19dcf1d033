package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        categoriaId  query  string  false  "Filtrar por categoría"
// @Param        limit        query  int     false  "Límite (default 20)"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("categoriaId"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/productos/:id (admin). 409 si figura en facturas.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Movements godoc
// @Summary      Kardex del producto
// @Description  Movimientos de stock (ventas, anulaciones y ajustes), más recientes primero.
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        desde   query  string  false  "YYYY-MM-DD"
// @Param        hasta   query  string  false  "YYYY-MM-DD (incluye el día completo)"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/movimientos [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	from, err := dayFromQuery(c, "desde", false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := dayFromQuery(c, "hasta", true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListMovements(c.UserContext(), c.Params("id"), from, to, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// dayFromQuery parsea una fecha YYYY-MM-DD; con endOfDay retorna el último
// instante de ese día.
func dayFromQuery(c *fiber.Ctx, name string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, raw, time.Local)
	if err != nil {
		return nil, domain.NewValidationError(name, "formato de fecha YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
