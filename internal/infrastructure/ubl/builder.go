// Package ubl genera el XML UBL 2.1 (Invoice-2) de una factura y calcula el
// resumen SHA-256 de su forma canónica (C14N 1.0).
package ubl

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/pkg/sunat"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
)

// SignatureID Id del ds:Signature, referenciado desde cac:Signature.
const SignatureID = "SignatureSP"

var _ appbilling.InvoiceXMLBuilder = (*Builder)(nil)

// Builder implementa billing.InvoiceXMLBuilder.
type Builder struct{}

// NewBuilder crea el builder.
func NewBuilder() *Builder { return &Builder{} }

// Build genera el documento Invoice. Deja vacío el ext:ExtensionContent donde
// Signer inyecta la firma.
func (b *Builder) Build(doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Customer == nil {
		return nil, fmt.Errorf("ubl: faltan factura o cliente")
	}
	inv := doc.Invoice
	currency := doc.Issuer.Currency
	if currency == "" {
		currency = "PEN"
	}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := x.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("xmlns:ext", NsExt)

	root.CreateElement("ext:UBLExtensions").
		CreateElement("ext:UBLExtension").
		CreateElement("ext:ExtensionContent")

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", "2.0")
	cbc(root, "ID", inv.FullNumber())
	cbc(root, "IssueDate", inv.IssueDate.Format("2006-01-02"))
	if inv.DueDate != nil {
		cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	}
	cbc(root, "InvoiceTypeCode", sunat.DocTypeInvoice)
	if inv.Notes != nil {
		cbc(root, "Note", *inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(doc.Lines)))

	// ── Referencia a la firma ────────────────────────────────────────────────
	sig := root.CreateElement("cac:Signature")
	cbc(sig, "ID", SignatureID)
	signatory := sig.CreateElement("cac:SignatoryParty")
	cbc(signatory.CreateElement("cac:PartyIdentification"), "ID", doc.Issuer.RUC)
	cbc(signatory.CreateElement("cac:PartyName"), "Name", doc.Issuer.LegalName)
	ref := sig.CreateElement("cac:DigitalSignatureAttachment").CreateElement("cac:ExternalReference")
	cbc(ref, "URI", "#"+SignatureID)

	// ── Emisor ────────────────────────────────────────────────────────────────
	supplier := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	party(supplier, sunat.IdentityRUC, doc.Issuer.RUC, doc.Issuer.LegalName, doc.Issuer.Address)

	// ── Cliente ───────────────────────────────────────────────────────────────
	customer := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	party(customer, sunat.IdentityCode(doc.Customer.DocumentType), doc.Customer.DocumentNumber, doc.Customer.LegalName, doc.Customer.Address)

	// ── Descuento global ─────────────────────────────────────────────────────
	if inv.Discount.IsPositive() {
		ac := root.CreateElement("cac:AllowanceCharge")
		cbc(ac, "ChargeIndicator", "false")
		amount(ac, "cbc:Amount", inv.Discount, currency)
	}

	// ── Impuestos ─────────────────────────────────────────────────────────────
	taxTotal(root, inv.Subtotal, inv.IGV, currency)

	// ── Totales ───────────────────────────────────────────────────────────────
	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "cbc:LineExtensionAmount", inv.Subtotal, currency)
	amount(lmt, "cbc:TaxInclusiveAmount", inv.Subtotal.Add(inv.IGV), currency)
	amount(lmt, "cbc:AllowanceTotalAmount", inv.Discount, currency)
	amount(lmt, "cbc:PayableAmount", inv.Total, currency)

	// ── Líneas ────────────────────────────────────────────────────────────────
	for _, l := range doc.Lines {
		line := root.CreateElement("cac:InvoiceLine")
		cbc(line, "ID", strconv.Itoa(l.Position))
		q := line.CreateElement("cbc:InvoicedQuantity")
		q.CreateAttr("unitCode", sunat.UnitGoods)
		q.SetText(strconv.Itoa(l.Quantity))
		amount(line, "cbc:LineExtensionAmount", l.Subtotal, currency)
		if l.Discount.IsPositive() {
			ac := line.CreateElement("cac:AllowanceCharge")
			cbc(ac, "ChargeIndicator", "false")
			amount(ac, "cbc:Amount", l.Discount, currency)
		}
		item := line.CreateElement("cac:Item")
		cbc(item, "Description", l.ProductName)
		if l.ProductCode != "" {
			cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", l.ProductCode)
		}
		price := line.CreateElement("cac:Price")
		amount(price, "cbc:PriceAmount", l.UnitPrice, currency)
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	return out, nil
}

// Digest SHA-256 (base64) de la forma canónica del XML.
func (b *Builder) Digest(xmlBytes []byte) (string, error) {
	canonical, err := Canonicalize(xmlBytes)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// Canonicalize aplica C14N 1.0 inclusivo.
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, v decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currency)
	el.SetText(v.StringFixed(2))
}

func party(parent *etree.Element, schemeID, id, name, address string) {
	pid := parent.CreateElement("cac:PartyIdentification").CreateElement("cbc:ID")
	pid.CreateAttr("schemeID", schemeID)
	pid.SetText(id)
	legal := parent.CreateElement("cac:PartyLegalEntity")
	cbc(legal, "RegistrationName", name)
	if address != "" {
		cbc(legal.CreateElement("cac:RegistrationAddress").CreateElement("cac:AddressLine"), "Line", address)
	}
}

func taxTotal(parent *etree.Element, taxable, tax decimal.Decimal, currency string) {
	tt := parent.CreateElement("cac:TaxTotal")
	amount(tt, "cbc:TaxAmount", tax, currency)
	sub := tt.CreateElement("cac:TaxSubtotal")
	amount(sub, "cbc:TaxableAmount", taxable, currency)
	amount(sub, "cbc:TaxAmount", tax, currency)
	scheme := sub.CreateElement("cac:TaxCategory").CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", sunat.TaxIGVID)
	cbc(scheme, "Name", sunat.TaxIGVName)
	cbc(scheme, "TaxTypeCode", sunat.TaxIGVTypeCode)
}
