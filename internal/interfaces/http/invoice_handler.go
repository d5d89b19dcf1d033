package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	dombilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	pdfUC    *billing.PDFUseCase
	xmlUC    *billing.XMLUseCase
	exportUC *billing.ExportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase, xmlUC *billing.XMLUseCase, exportUC *billing.ExportUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC, xmlUC: xmlUC, exportUC: exportUC}
}

// Create godoc
// @Summary      Emitir factura
// @Description  Calcula totales, asigna correlativo y descuenta stock en una sola transacción.
// @Tags         facturas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y detalles"
// @Success      201   {object}  dto.InvoiceResource
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facturas [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateInvoiceRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         facturas
// @Security     Bearer
// @Produce      json
// @Param        estado     query  string  false  "emitida | pagada | anulada"
// @Param        clienteId  query  string  false  "ID del cliente"
// @Param        serie      query  string  false  "Serie, ej. F001"
// @Param        desde      query  string  false  "Fecha de emisión desde (YYYY-MM-DD)"
// @Param        hasta      query  string  false  "Fecha de emisión hasta (YYYY-MM-DD)"
// @Param        include    query  string  false  "cliente,usuario"
// @Param        limit      query  int     false  "Límite (default 20)"
// @Param        offset     query  int     false  "Offset"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/facturas [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	filter, err := invoiceFilterFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	page := pageFromQuery(c)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	out, err := h.uc.List(c.UserContext(), filter, billing.ParseInclude(c.Query("include")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         facturas
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID de la factura"
// @Param        include  query  string  false  "cliente,usuario,detalles"
// @Success      200  {object}  dto.InvoiceResource
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), billing.ParseInclude(c.Query("include")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar observaciones / vencimiento
// @Description  Los montos, el cliente y los detalles no se editan después de emitir.
// @Tags         facturas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "observaciones, fechaVencimiento"
// @Success      200   {object}  dto.InvoiceResource
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/facturas/{id} [patch]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateNotes(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Registrar pago
// @Tags         facturas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResource
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/pagar [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular factura (admin)
// @Description  Devuelve al stock las cantidades vendidas.
// @Tags         facturas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResource
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/anular [post]
func (h *InvoiceHandler) Void(c *fiber.Ctx) error {
	out, err := h.uc.Void(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF
// @Tags         facturas
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdfUC.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// DownloadXML godoc
// @Summary      Descargar XML UBL 2.1
// @Description  El header X-Digest-Value lleva el SHA-256 (base64) del XML canónico.
// @Description  Con formato=zip se entrega comprimido ({RUC}-01-{SERIE}-{NUMERO}.zip).
// @Description  X-Signed indica si el XML lleva firma XMLDSig (requiere BILLING_CERT_PATH).
// @Tags         facturas
// @Security     Bearer
// @Produce      application/xml
// @Param        id       path   string  true   "ID de la factura"
// @Param        formato  query  string  false  "xml (default) | zip"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facturas/{id}/xml [get]
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("formato", "xml"))
	if format != "xml" && format != "zip" {
		return writeError(c, domain.NewValidationError("formato", "debe ser xml o zip"))
	}
	file, err := h.xmlUC.DownloadInvoiceXML(c.UserContext(), c.Params("id"), format == "zip")
	if err != nil {
		return writeError(c, err)
	}
	if file.Zipped {
		c.Set(fiber.HeaderContentType, "application/zip")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	}
	c.Set("X-Digest-Value", file.Digest)
	c.Set("X-Signed", strconv.FormatBool(file.Signed))
	c.Attachment(file.Filename)
	return c.Send(file.Data)
}

// Export godoc
// @Summary      Exportar facturas a Excel
// @Tags         facturas
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        estado     query  string  false  "emitida | pagada | anulada"
// @Param        clienteId  query  string  false  "ID del cliente"
// @Param        serie      query  string  false  "Serie"
// @Param        desde      query  string  false  "YYYY-MM-DD"
// @Param        hasta      query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/facturas/export [get]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	filter, err := invoiceFilterFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.exportUC.ExportInvoices(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment(filename)
	return c.Send(data)
}

// invoiceFilterFromQuery lee estado, clienteId, serie, desde y hasta.
func invoiceFilterFromQuery(c *fiber.Ctx) (repository.InvoiceFilter, error) {
	f := repository.InvoiceFilter{
		Status:     dombilling.Status(strings.ToLower(c.Query("estado"))),
		CustomerID: c.Query("clienteId"),
		Series:     strings.ToUpper(c.Query("serie")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, domain.NewValidationError("estado", "debe ser emitida, pagada o anulada")
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"desde", &f.From}, {"hasta", &f.To}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dto.DateLayout, raw, time.Local)
		if err != nil {
			return f, domain.NewValidationError(q.name, "formato de fecha YYYY-MM-DD")
		}
		*q.dst = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.NewValidationError("hasta", "anterior a desde")
	}
	return f, nil
}
