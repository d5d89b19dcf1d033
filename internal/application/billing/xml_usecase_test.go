package billing_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/ubl"
)

var testIssuer = billing.Issuer{RUC: "20131312955", LegalName: "EMISOR SAC", Address: "Av. Lima 123", Currency: "PEN"}

// stubSigner marca el XML en lugar de firmarlo.
type stubSigner struct {
	calls int
	err   error
}

func (s *stubSigner) Sign(xmlBytes []byte) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte("<!-- firmado -->"), xmlBytes...), nil
}

func newXMLUseCase(t *testing.T) (fixture, *billing.XMLUseCase, string) {
	t.Helper()
	f := newFixture(t)
	inv, err := f.uc.Create(context.Background(), "u1", simpleRequest("p1", 2))
	require.NoError(t, err)
	loader := billing.NewDocumentLoader(f.store.Invoices(), f.store.Customers(), f.store.Products(), testIssuer)
	return f, billing.NewXMLUseCase(loader, ubl.NewBuilder()), inv.ID
}

func TestDownloadInvoiceXML_SinFirma(t *testing.T) {
	_, uc, id := newXMLUseCase(t)

	file, err := uc.DownloadInvoiceXML(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, "20131312955-01-F001-00000001.xml", file.Filename)
	assert.False(t, file.Signed)
	assert.False(t, file.Zipped)

	digest, err := ubl.NewBuilder().Digest(file.Data)
	require.NoError(t, err)
	assert.Equal(t, digest, file.Digest)
	assert.Contains(t, string(file.Data), "<cbc:ID>F001-00000001</cbc:ID>")
}

func TestDownloadInvoiceXML_FirmaYConservaResumen(t *testing.T) {
	_, uc, id := newXMLUseCase(t)
	plain, err := uc.DownloadInvoiceXML(context.Background(), id, false)
	require.NoError(t, err)

	signer := &stubSigner{}
	uc.WithSigner(signer)
	signed, err := uc.DownloadInvoiceXML(context.Background(), id, false)
	require.NoError(t, err)

	assert.Equal(t, 1, signer.calls)
	assert.True(t, signed.Signed)
	assert.True(t, bytes.HasPrefix(signed.Data, []byte("<!-- firmado -->")))
	assert.Equal(t, plain.Digest, signed.Digest, "el resumen es del XML sin firma")
}

func TestDownloadInvoiceXML_ErrorDeFirma(t *testing.T) {
	_, uc, id := newXMLUseCase(t)
	boom := errors.New("llave inválida")
	uc.WithSigner(&stubSigner{err: boom})

	_, err := uc.DownloadInvoiceXML(context.Background(), id, false)
	assert.ErrorIs(t, err, boom)
}

func TestDownloadInvoiceXML_Zip(t *testing.T) {
	_, uc, id := newXMLUseCase(t)

	file, err := uc.DownloadInvoiceXML(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, file.Zipped)
	assert.Equal(t, "20131312955-01-F001-00000001.zip", file.Filename)

	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "20131312955-01-F001-00000001.xml", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	inner, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(inner), "<cbc:ID>F001-00000001</cbc:ID>")
}

func TestDownloadInvoiceXML_FacturaInexistente(t *testing.T) {
	_, uc, _ := newXMLUseCase(t)
	_, err := uc.DownloadInvoiceXML(context.Background(), "nope", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
