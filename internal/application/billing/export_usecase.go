package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// maxExportRows tope de filas por exportación.
const maxExportRows = 5000

// ExportUseCase exporta un listado filtrado de facturas a hoja de cálculo.
type ExportUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	exporter     InvoiceSheetExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository, exporter InvoiceSheetExporter) *ExportUseCase {
	return &ExportUseCase{invoiceRepo: invoiceRepo, customerRepo: customerRepo, exporter: exporter}
}

// ExportInvoices retorna el archivo .xlsx y el nombre sugerido.
// Limit/Offset del filtro se ignoran.
func (uc *ExportUseCase) ExportInvoices(ctx context.Context, filter repository.InvoiceFilter) ([]byte, string, error) {
	filter.Limit, filter.Offset = maxExportRows, 0
	list, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: listar facturas: %w", err)
	}

	customers := map[string]*entity.Customer{}
	rows := make([]InvoiceSheetRow, 0, len(list))
	for _, inv := range list {
		c, err := cachedCustomer(ctx, uc.customerRepo, customers, inv.CustomerID)
		if err != nil {
			return nil, "", err
		}
		row := InvoiceSheetRow{Invoice: inv}
		if c != nil {
			row.CustomerDoc = c.DocumentNumber
			row.CustomerName = c.LegalName
		}
		rows = append(rows, row)
	}

	data, err := uc.exporter.ExportInvoices(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportar: generar hoja: %w", err)
	}
	return data, "facturas.xlsx", nil
}
