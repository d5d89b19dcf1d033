package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de facturación. Si fn retorna error se hace rollback.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// Issuer datos del emisor de las facturas (se toman de la configuración).
type Issuer struct {
	RUC       string
	LegalName string
	Address   string
	Currency  string // ISO 4217, ej. "PEN"
}

// InvoiceLineForDoc línea enriquecida con los datos del producto para PDF/XML.
type InvoiceLineForDoc struct {
	entity.InvoiceDetail
	ProductCode string
	ProductName string
}

// InvoiceDocument todo lo necesario para representar una factura fuera de la API JSON.
type InvoiceDocument struct {
	Invoice  *entity.Invoice
	Customer *entity.Customer
	Issuer   Issuer
	Lines    []InvoiceLineForDoc
	Digest   string // resumen del XML canónico; vacío si no se calculó
}

// InvoicePDFGenerator genera la representación impresa de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceXMLBuilder genera el XML UBL 2.1 de la factura y su resumen canónico.
type InvoiceXMLBuilder interface {
	Build(doc InvoiceDocument) ([]byte, error)
	Digest(xmlBytes []byte) (string, error)
}

// InvoiceXMLSigner firma el XML de la factura (XMLDSig envuelto).
type InvoiceXMLSigner interface {
	Sign(xmlBytes []byte) ([]byte, error)
}

// InvoiceSheetExporter genera una hoja de cálculo con un listado de facturas.
type InvoiceSheetExporter interface {
	ExportInvoices(ctx context.Context, rows []InvoiceSheetRow) ([]byte, error)
}

// InvoiceSheetRow fila del listado exportado.
type InvoiceSheetRow struct {
	Invoice      *entity.Invoice
	CustomerDoc  string
	CustomerName string
}
