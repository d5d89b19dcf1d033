package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/pdf"
)

func sampleDocument(status billing.Status) appbilling.InvoiceDocument {
	inv := &entity.Invoice{
		ID: "f1", Series: "F001", Number: "00000007",
		IssueDate: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Subtotal:  decimal.RequireFromString("245.00"),
		IGV:       decimal.RequireFromString("44.10"),
		Discount:  decimal.Zero,
		Total:     decimal.RequireFromString("289.10"),
		Status:    status,
	}
	return appbilling.InvoiceDocument{
		Invoice:  inv,
		Customer: &entity.Customer{DocumentType: entity.DocTypeRUC, DocumentNumber: "20123456789", LegalName: "CLIENTE SAC"},
		Issuer:   appbilling.Issuer{RUC: "20000000001", LegalName: "EMISOR SAC", Currency: "PEN"},
		Lines: []appbilling.InvoiceLineForDoc{{
			InvoiceDetail: entity.InvoiceDetail{
				ProductID: "p1", Quantity: 2,
				UnitPrice: decimal.RequireFromString("100.00"),
				Discount:  decimal.RequireFromString("5.00"),
				Subtotal:  decimal.RequireFromString("195.00"),
			},
			ProductCode: "P-001", ProductName: "Producto uno",
		}},
		Digest: "abc=",
	}
}

func TestGenerateInvoicePDF_GeneraBytes(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()

	for _, st := range []billing.Status{billing.StatusIssued, billing.StatusVoided} {
		out, err := g.GenerateInvoicePDF(context.Background(), sampleDocument(st))
		require.NoError(t, err)
		assert.True(t, len(out) > 4 && string(out[:4]) == "%PDF", "cabecera PDF")
	}
}

func TestGenerateInvoicePDF_DocumentoIncompleto(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "S/ 1,234.50", pdf.FormatMoney("PEN", decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", pdf.FormatMoney("", decimal.Zero))
	assert.Equal(t, "US$ 1,000,000.00", pdf.FormatMoney("USD", decimal.NewFromInt(1000000)))
}

func TestQRPayload(t *testing.T) {
	got := pdf.QRPayload(sampleDocument(billing.StatusIssued))
	assert.Equal(t, "20000000001|01|F001|00000007|44.10|289.10|2026-10-18|6|20123456789|abc=", got)
}
