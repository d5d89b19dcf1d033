package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/pkg/sunat"
)

// XMLUseCase genera el XML UBL 2.1 de una factura.
type XMLUseCase struct {
	loader  *DocumentLoader
	builder InvoiceXMLBuilder
	signer  InvoiceXMLSigner
}

// NewXMLUseCase construye el caso de uso.
func NewXMLUseCase(loader *DocumentLoader, builder InvoiceXMLBuilder) *XMLUseCase {
	return &XMLUseCase{loader: loader, builder: builder}
}

// WithSigner activa la firma del XML. nil la desactiva.
func (uc *XMLUseCase) WithSigner(signer InvoiceXMLSigner) *XMLUseCase {
	uc.signer = signer
	return uc
}

// XMLFile XML generado (o su ZIP) con el resumen del XML canónico.
type XMLFile struct {
	Data     []byte
	Digest   string // SHA-256 en base64
	Filename string // {RUC}-01-{SERIE}-{NUMERO}.xml o .zip
	Zipped   bool
	Signed   bool
}

// DownloadInvoiceXML arma el XML de la factura. Con zipped=true lo entrega
// comprimido con el nombre de archivo que espera SUNAT.
func (uc *XMLUseCase) DownloadInvoiceXML(ctx context.Context, invoiceID string, zipped bool) (*XMLFile, error) {
	doc, err := uc.loader.Load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	xmlBytes, err := uc.builder.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("xml: construir: %w", err)
	}
	digest, err := uc.builder.Digest(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("xml: resumen: %w", err)
	}

	// el resumen es el del documento sin firma, igual al DigestValue de la firma
	if uc.signer != nil {
		if xmlBytes, err = uc.signer.Sign(xmlBytes); err != nil {
			return nil, fmt.Errorf("xml: firmar: %w", err)
		}
	}

	xmlName, zipName := sunat.Filenames(doc.Issuer.RUC, sunat.DocTypeInvoice, doc.Invoice.Series, doc.Invoice.Number)
	file := &XMLFile{Data: xmlBytes, Digest: digest, Filename: xmlName, Signed: uc.signer != nil}
	if !zipped {
		return file, nil
	}
	zipBytes, err := sunat.CompressXMLToZip(xmlBytes, xmlName)
	if err != nil {
		return nil, err
	}
	file.Data, file.Filename, file.Zipped = zipBytes, zipName, true
	return file, nil
}
