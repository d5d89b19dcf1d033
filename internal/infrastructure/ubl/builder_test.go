package ubl_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/ubl"
)

func sampleDocument() appbilling.InvoiceDocument {
	return appbilling.InvoiceDocument{
		Invoice: &entity.Invoice{
			Series: "F001", Number: "00000007",
			IssueDate: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			Subtotal:  decimal.RequireFromString("245.00"),
			IGV:       decimal.RequireFromString("44.10"),
			Discount:  decimal.Zero,
			Total:     decimal.RequireFromString("289.10"),
			Status:    billing.StatusIssued,
		},
		Customer: &entity.Customer{DocumentType: entity.DocTypeDNI, DocumentNumber: "12345678", LegalName: "Juan Pérez"},
		Issuer:   appbilling.Issuer{RUC: "20000000001", LegalName: "EMISOR SAC", Currency: "PEN"},
		Lines: []appbilling.InvoiceLineForDoc{
			{
				InvoiceDetail: entity.InvoiceDetail{
					Position: 1, ProductID: "p1", Quantity: 2,
					UnitPrice: decimal.RequireFromString("100.00"),
					Discount:  decimal.RequireFromString("5.00"),
					Subtotal:  decimal.RequireFromString("195.00"),
				},
				ProductCode: "P-001", ProductName: "Producto uno",
			},
			{
				InvoiceDetail: entity.InvoiceDetail{
					Position: 2, ProductID: "p2", Quantity: 1,
					UnitPrice: decimal.RequireFromString("50.00"),
					Subtotal:  decimal.RequireFromString("50.00"),
				},
				ProductName: "Producto dos",
			},
		},
	}
}

func TestBuild_ContenidoPrincipal(t *testing.T) {
	out, err := ubl.NewBuilder().Build(sampleDocument())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)

	assert.Equal(t, "F001-00000007", root.SelectElement("cbc:ID").Text())
	assert.Equal(t, "2026-10-18", root.SelectElement("cbc:IssueDate").Text())
	assert.Equal(t, "PEN", root.SelectElement("cbc:DocumentCurrencyCode").Text())

	payable := root.FindElement("./cac:LegalMonetaryTotal/cbc:PayableAmount")
	require.NotNil(t, payable)
	assert.Equal(t, "289.10", payable.Text())
	assert.Equal(t, "PEN", payable.SelectAttrValue("currencyID", ""))

	tax := root.FindElement("./cac:TaxTotal/cbc:TaxAmount")
	require.NotNil(t, tax)
	assert.Equal(t, "44.10", tax.Text())

	lines := root.SelectElements("cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "195.00", lines[0].SelectElement("cbc:LineExtensionAmount").Text())
	assert.NotNil(t, lines[0].SelectElement("cac:AllowanceCharge"), "línea con descuento")
	assert.Nil(t, lines[1].SelectElement("cac:AllowanceCharge"))

	customerID := root.FindElement("./cac:AccountingCustomerParty/cac:Party/cac:PartyIdentification/cbc:ID")
	require.NotNil(t, customerID)
	assert.Equal(t, "1", customerID.SelectAttrValue("schemeID", ""))
}

func TestBuild_DocumentoIncompleto(t *testing.T) {
	_, err := ubl.NewBuilder().Build(appbilling.InvoiceDocument{})
	assert.Error(t, err)
}

func TestDigest_Determinista(t *testing.T) {
	b := ubl.NewBuilder()
	out, err := b.Build(sampleDocument())
	require.NoError(t, err)

	d1, err := b.Digest(out)
	require.NoError(t, err)
	d2, err := b.Digest(out)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 44, "SHA-256 en base64")

	other := sampleDocument()
	other.Invoice.Number = "00000008"
	out2, err := b.Build(other)
	require.NoError(t, err)
	d3, err := b.Digest(out2)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestCanonicalize_OrdenDeAtributos(t *testing.T) {
	a, err := ubl.Canonicalize([]byte(`<a y="2" x="1"/>`))
	require.NoError(t, err)
	b, err := ubl.Canonicalize([]byte(`<a x="1" y="2"></a>`))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
