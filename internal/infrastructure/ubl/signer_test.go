package ubl_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/ubl"
)

// selfSignedCert genera un certificado RSA de prueba.
func selfSignedCert(t *testing.T) (tls.Certificate, []byte, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "EMISOR SAC", SerialNumber: "20000000001"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, certPEM, keyPEM
}

func newSigner(t *testing.T) *ubl.Signer {
	t.Helper()
	cert, _, _ := selfSignedCert(t)
	s, err := ubl.NewSigner(cert)
	require.NoError(t, err)
	return s
}

// ── Sign / Verify ────────────────────────────────────────────────────────────

func TestSign_InyectaFirmaVerificable(t *testing.T) {
	b := ubl.NewBuilder()
	unsigned, err := b.Build(sampleDocument())
	require.NoError(t, err)
	digest, err := b.Digest(unsigned)
	require.NoError(t, err)

	s := newSigner(t)
	signed, err := s.Sign(unsigned)
	require.NoError(t, err)
	require.NoError(t, s.Verify(signed))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))
	sig := doc.Root().FindElement("./ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent/ds:Signature")
	require.NotNil(t, sig)
	assert.Equal(t, ubl.SignatureID, sig.SelectAttrValue("Id", ""))
	assert.Equal(t, digest, sig.FindElement("./ds:SignedInfo/ds:Reference/ds:DigestValue").Text(),
		"DigestValue igual al resumen del documento sin firma")
	assert.NotEmpty(t, sig.SelectElement("ds:SignatureValue").Text())

	ref := doc.Root().FindElement("./cac:Signature/cac:DigitalSignatureAttachment/cac:ExternalReference/cbc:URI")
	require.NotNil(t, ref)
	assert.Equal(t, "#"+ubl.SignatureID, ref.Text())
}

func TestVerify_DetectaAlteracion(t *testing.T) {
	unsigned, err := ubl.NewBuilder().Build(sampleDocument())
	require.NoError(t, err)
	s := newSigner(t)
	signed, err := s.Sign(unsigned)
	require.NoError(t, err)

	tampered := bytes.Replace(signed, []byte("289.10"), []byte("189.10"), 1)
	require.NotEqual(t, signed, tampered)
	assert.ErrorIs(t, s.Verify(tampered), ubl.ErrInvalidSignature)
}

func TestVerify_OtroCertificadoFalla(t *testing.T) {
	unsigned, err := ubl.NewBuilder().Build(sampleDocument())
	require.NoError(t, err)
	signed, err := newSigner(t).Sign(unsigned)
	require.NoError(t, err)

	assert.ErrorIs(t, newSigner(t).Verify(signed), ubl.ErrInvalidSignature)
}

func TestSign_DocumentoYaFirmado(t *testing.T) {
	unsigned, err := ubl.NewBuilder().Build(sampleDocument())
	require.NoError(t, err)
	s := newSigner(t)
	signed, err := s.Sign(unsigned)
	require.NoError(t, err)

	_, err = s.Sign(signed)
	assert.Error(t, err)
}

func TestSign_SinExtensionContent(t *testing.T) {
	_, err := newSigner(t).Sign([]byte(`<Invoice xmlns="urn:x"><ID>1</ID></Invoice>`))
	assert.Error(t, err)
}

// ── Carga de certificado ─────────────────────────────────────────────────────

func TestLoadCertificate_PEMCombinado(t *testing.T) {
	_, certPEM, keyPEM := selfSignedCert(t)
	path := filepath.Join(t.TempDir(), "emisor.pem")
	require.NoError(t, os.WriteFile(path, append(certPEM, keyPEM...), 0o600))

	cert, err := ubl.LoadCertificate(path, "")
	require.NoError(t, err)
	_, err = ubl.NewSigner(cert)
	assert.NoError(t, err)
}

func TestLoadCertificate_P12Invalido(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emisor.p12")
	require.NoError(t, os.WriteFile(path, []byte("no es un p12"), 0o600))

	_, err := ubl.LoadCertificate(path, "secreto")
	assert.Error(t, err)
}
