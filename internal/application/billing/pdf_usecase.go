package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DocumentLoader arma el InvoiceDocument (factura + cliente + líneas con nombre
// de producto) que consumen el PDF y el XML.
type DocumentLoader struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	issuer       Issuer
}

// NewDocumentLoader construye el cargador.
func NewDocumentLoader(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	issuer Issuer,
) *DocumentLoader {
	return &DocumentLoader{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		issuer:       issuer,
	}
}

// Load retorna NotFoundError si la factura no existe.
func (l *DocumentLoader) Load(ctx context.Context, invoiceID string) (InvoiceDocument, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := l.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return InvoiceDocument{}, &domain.NotFoundError{Resource: "factura", ID: invoiceID}
	}

	// ── 2. Cargar cliente ─────────────────────────────────────────────────────
	customer, err := l.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return InvoiceDocument{}, &domain.NotFoundError{Resource: "cliente", ID: inv.CustomerID}
	}

	// ── 3. Cargar detalles + enriquecer con datos del producto ────────────────
	rawDetails, err := l.invoiceRepo.GetDetailsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return InvoiceDocument{}, fmt.Errorf("obtener detalles: %w", err)
	}
	lines := make([]InvoiceLineForDoc, 0, len(rawDetails))
	for _, d := range rawDetails {
		line := InvoiceLineForDoc{InvoiceDetail: *d, ProductName: "Producto " + d.ProductID}
		if product, pErr := l.productRepo.GetByID(ctx, d.ProductID); pErr == nil && product != nil {
			line.ProductCode = product.Code
			line.ProductName = product.Name
		}
		lines = append(lines, line)
	}

	return InvoiceDocument{
		Invoice:  inv,
		Customer: customer,
		Issuer:   l.issuer,
		Lines:    lines,
	}, nil
}

// PDFUseCase genera la representación impresa (PDF) de una factura.
// Si hay un InvoiceXMLBuilder, el pie del PDF lleva el resumen del XML.
type PDFUseCase struct {
	loader     *DocumentLoader
	generator  InvoicePDFGenerator
	xmlBuilder InvoiceXMLBuilder
}

// NewPDFUseCase construye el caso de uso. xmlBuilder puede ser nil.
func NewPDFUseCase(loader *DocumentLoader, generator InvoicePDFGenerator, xmlBuilder InvoiceXMLBuilder) *PDFUseCase {
	return &PDFUseCase{loader: loader, generator: generator, xmlBuilder: xmlBuilder}
}

// DownloadInvoicePDF retorna los bytes del PDF y el nombre de archivo sugerido.
// Las facturas anuladas se imprimen con la marca ANULADA.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.loader.Load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if uc.xmlBuilder != nil {
		xmlBytes, err := uc.xmlBuilder.Build(doc)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: construir xml: %w", err)
		}
		if doc.Digest, err = uc.xmlBuilder.Digest(xmlBytes); err != nil {
			return nil, "", fmt.Errorf("pdf: resumen xml: %w", err)
		}
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("factura_%s.pdf", doc.Invoice.FullNumber())
	return pdfBytes, filename, nil
}
