// Package excel exporta listados de facturas a .xlsx con excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
)

// SheetName nombre de la hoja generada.
const SheetName = "Facturas"

var headers = []string{
	"Número", "Fecha emisión", "Fecha vencimiento", "Doc. cliente", "Cliente",
	"Subtotal", "IGV", "Descuento", "Total", "Estado",
}

var _ appbilling.InvoiceSheetExporter = (*InvoiceExporter)(nil)

// InvoiceExporter implementa billing.InvoiceSheetExporter.
type InvoiceExporter struct{}

// NewInvoiceExporter crea el exportador.
func NewInvoiceExporter() *InvoiceExporter { return &InvoiceExporter{} }

// ExportInvoices genera el libro con una fila por factura. Los montos se
// escriben como números con formato de dos decimales.
func (e *InvoiceExporter) ExportInvoices(ctx context.Context, rows []appbilling.InvoiceSheetRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("excel: hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	// ── Cabecera ──────────────────────────────────────────────────────────────
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("excel: cabecera: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}

	// ── Filas ─────────────────────────────────────────────────────────────────
	for r, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv := row.Invoice
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format("2006-01-02")
		}
		values := []any{
			inv.FullNumber(),
			inv.IssueDate.Format("2006-01-02"),
			due,
			row.CustomerDoc,
			row.CustomerName,
			inv.Subtotal.InexactFloat64(),
			inv.IGV.InexactFloat64(),
			inv.Discount.InexactFloat64(),
			inv.Total.InexactFloat64(),
			string(inv.Status),
		}
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", r+2, err)
		}
		from, _ := excelize.CoordinatesToCellName(6, r+2)
		to, _ := excelize.CoordinatesToCellName(9, r+2)
		if err := f.SetCellStyle(SheetName, from, to, moneyStyle); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 16); err != nil {
		return nil, fmt.Errorf("excel: ancho: %w", err)
	}
	if err := f.SetColWidth(SheetName, "E", "E", 36); err != nil {
		return nil, fmt.Errorf("excel: ancho: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
