// Package pdf implementa la representación impresa de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  Serie-Número + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección                                          │
//	│  CLIENTE: Razón social + documento + dirección              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Código | Descripción | P.Unit | Dscto | Subt │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IGV / Descuento / TOTAL                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR + resumen XML + estado                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/sunat"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorVoided  = &props.Color{Red: 200, Green: 30, Blue: 30}
)

// printer formato numérico con separador de miles (ej. 1,234.50).
var printer = message.NewPrinter(language.AmericanEnglish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Customer == nil {
		return nil, fmt.Errorf("pdf: documento incompleto")
	}
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.FullNumber(), true).
		WithAuthor(doc.Issuer.LegalName, true).
		Build()

	m := maroto.New(cfg)

	if inv.Status == billing.StatusVoided {
		m.AddRows(voidedRow())
	}

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Issuer))
	m.AddRows(customerRow(doc.Customer, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de detalles
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines, doc.Issuer.Currency)...)

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, doc.Issuer.Currency))

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func voidedRow() core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 24, Align: align.Center, Color: colorVoided, Top: 1,
		}),
	))
}

// headerRow: razón social + RUC (izq) y serie-número + fecha (der).
func headerRow(doc appbilling.InvoiceDocument) core.Row {
	inv := doc.Invoice
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Issuer.LegalName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+doc.Issuer.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.FullNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(issuer appbilling.Issuer) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Dirección: "+nonEmpty(issuer.Address, "-"), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(c *entity.Customer, inv *entity.Invoice) core.Row {
	due := "-"
	if inv.DueDate != nil {
		due = inv.DueDate.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.LegalName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s: %s   |   Dirección: %s",
				c.DocumentType, c.DocumentNumber, nonEmpty(c.Address, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New("Vencimiento: "+due, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Dscto.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func tableDetailRows(lines []appbilling.InvoiceLineForDoc, currency string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprint(d.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(d.ProductCode, "-"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				d.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				FormatMoney(currency, d.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				FormatMoney("", d.Discount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				FormatMoney(currency, d.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(inv *entity.Invoice, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: right, Top: 15,
		})
	}

	return row.New(24).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("IGV:", 5),
			label("Descuento:", 10),
			grand("TOTAL:", 2),
		),
		col.New(3).Add(
			value(FormatMoney(currency, inv.Subtotal), 0),
			value(FormatMoney(currency, inv.IGV), 5),
			value(FormatMoney(currency, inv.Discount), 10),
			grand(FormatMoney(currency, inv.Total), 1),
		),
	)
}

// footerRows: QR con los datos de la factura + resumen del XML + estado.
func footerRows(doc appbilling.InvoiceDocument) []core.Row {
	inv := doc.Invoice
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN DEL COMPROBANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	legend := "Estado: " + strings.ToUpper(string(inv.Status))
	if doc.Digest != "" {
		legend += "\nResumen: " + doc.Digest
	}
	rows = append(rows, row.New(40).Add(
		col.New(4).Add(code.NewQr(QRPayload(doc), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New(legend, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Representación impresa de la FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 22, Left: 3, Color: colorPrimary,
			}),
		),
	))
	return rows
}

// QRPayload contenido del QR: RUC|01|SERIE|NUMERO|IGV|TOTAL|FECHA|TIPODOC|NUMDOC|RESUMEN.
func QRPayload(doc appbilling.InvoiceDocument) string {
	inv := doc.Invoice
	return strings.Join([]string{
		doc.Issuer.RUC,
		sunat.DocTypeInvoice,
		inv.Series,
		inv.Number,
		inv.IGV.StringFixed(2),
		inv.Total.StringFixed(2),
		inv.IssueDate.Format("2006-01-02"),
		sunat.IdentityCode(doc.Customer.DocumentType),
		doc.Customer.DocumentNumber,
		doc.Digest,
	}, "|")
}

// ── helpers ───────────────────────────────────────────────────────────────────

// FormatMoney monto con separador de miles y dos decimales, con prefijo de moneda
// si currency no está vacío. Ej: FormatMoney("PEN", 1234.5) → "S/ 1,234.50".
func FormatMoney(currency string, d decimal.Decimal) string {
	s := printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	switch currency {
	case "":
		return s
	case "PEN":
		return "S/ " + s
	case "USD":
		return "US$ " + s
	default:
		return currency + " " + s
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
