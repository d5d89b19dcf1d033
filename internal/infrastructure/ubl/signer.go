package ubl

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/crypto/pkcs12"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
)

// Namespace y algoritmos XMLDSig.
const (
	NsDS = "http://www.w3.org/2000/09/xmldsig#"

	algC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	algRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	algSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	transformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

const extensionContentPath = "./ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent"

// ErrInvalidSignature la firma no corresponde al documento o al certificado.
var ErrInvalidSignature = errors.New("ubl: firma inválida")

var _ appbilling.InvoiceXMLSigner = (*Signer)(nil)

// LoadCertificate carga certificado y llave privada desde un .p12/.pfx o desde
// un PEM que contenga ambos. El password solo aplica al .p12.
func LoadCertificate(path, password string) (tls.Certificate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pem", ".crt":
		cert, err := tls.LoadX509KeyPair(path, path)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("cargar PEM: %w", err)
		}
		return cert, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	// pkcs12.Decode solo devuelve el certificado hoja
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// Signer firma el XML con XMLDSig envuelto (RSA-SHA256, C14N 1.0) e inyecta el
// ds:Signature en ext:UBLExtensions.
type Signer struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

// NewSigner construye el firmador. La llave debe ser RSA.
func NewSigner(cert tls.Certificate) (*Signer, error) {
	key, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("ubl: el certificado debe incluir llave privada RSA")
	}
	leaf := cert.Leaf
	if leaf == nil {
		if len(cert.Certificate) == 0 {
			return nil, fmt.Errorf("ubl: certificado vacío")
		}
		var err error
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("ubl: parsear certificado: %w", err)
		}
	}
	return &Signer{key: key, cert: leaf}, nil
}

// Sign devuelve el XML firmado. El DigestValue coincide con Builder.Digest del
// documento sin firmar.
func (s *Signer) Sign(xmlBytes []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("ubl: parsear XML: %w", err)
	}
	content, err := signatureSlot(doc)
	if err != nil {
		return nil, err
	}
	if len(content.ChildElements()) > 0 {
		return nil, fmt.Errorf("ubl: el documento ya está firmado")
	}

	canonical, err := Canonicalize(xmlBytes)
	if err != nil {
		return nil, err
	}
	docDigest := sha256.Sum256(canonical)

	sig := s.signatureElement(base64.StdEncoding.EncodeToString(docDigest[:]))
	content.AddChild(sig)

	signedInfo, err := canonicalSignedInfo(sig.SelectElement("ds:SignedInfo"))
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(signedInfo)
	value, err := rsa.SignPKCS1v15(nil, s.key, crypto.SHA256, hash[:])
	if err != nil {
		return nil, fmt.Errorf("ubl: firmar SignedInfo: %w", err)
	}
	sig.SelectElement("ds:SignatureValue").SetText(base64.StdEncoding.EncodeToString(value))

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar: %w", err)
	}
	return out, nil
}

// Verify comprueba la firma de un XML producido por Sign con el certificado
// de este firmador.
func (s *Signer) Verify(signed []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signed); err != nil {
		return fmt.Errorf("ubl: parsear XML: %w", err)
	}
	content, err := signatureSlot(doc)
	if err != nil {
		return err
	}
	sig := content.SelectElement("ds:Signature")
	if sig == nil {
		return fmt.Errorf("%w: sin ds:Signature", ErrInvalidSignature)
	}
	si := sig.SelectElement("ds:SignedInfo")
	digestEl := sig.FindElement("./ds:SignedInfo/ds:Reference/ds:DigestValue")
	valueEl := sig.SelectElement("ds:SignatureValue")
	if si == nil || digestEl == nil || valueEl == nil {
		return fmt.Errorf("%w: estructura incompleta", ErrInvalidSignature)
	}

	canonicalSI, err := canonicalSignedInfo(si)
	if err != nil {
		return err
	}
	value, err := base64.StdEncoding.DecodeString(strings.TrimSpace(valueEl.Text()))
	if err != nil {
		return fmt.Errorf("%w: SignatureValue no es base64", ErrInvalidSignature)
	}
	hash := sha256.Sum256(canonicalSI)
	if err := rsa.VerifyPKCS1v15(&s.key.PublicKey, crypto.SHA256, hash[:], value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	// transformación enveloped: el resumen se calcula sin el ds:Signature
	content.RemoveChild(sig)
	unsigned, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("ubl: serializar: %w", err)
	}
	canonical, err := Canonicalize(unsigned)
	if err != nil {
		return err
	}
	docDigest := sha256.Sum256(canonical)
	if base64.StdEncoding.EncodeToString(docDigest[:]) != strings.TrimSpace(digestEl.Text()) {
		return fmt.Errorf("%w: DigestValue no coincide", ErrInvalidSignature)
	}
	return nil
}

func (s *Signer) signatureElement(digestB64 string) *etree.Element {
	sig := etree.NewElement("ds:Signature")
	sig.CreateAttr("xmlns:ds", NsDS)
	sig.CreateAttr("Id", SignatureID)

	si := sig.CreateElement("ds:SignedInfo")
	si.CreateElement("ds:CanonicalizationMethod").CreateAttr("Algorithm", algC14N)
	si.CreateElement("ds:SignatureMethod").CreateAttr("Algorithm", algRSASHA256)
	ref := si.CreateElement("ds:Reference")
	ref.CreateAttr("URI", "")
	ref.CreateElement("ds:Transforms").CreateElement("ds:Transform").CreateAttr("Algorithm", transformEnveloped)
	ref.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", algSHA256)
	ref.CreateElement("ds:DigestValue").SetText(digestB64)

	sig.CreateElement("ds:SignatureValue")
	sig.CreateElement("ds:KeyInfo").
		CreateElement("ds:X509Data").
		CreateElement("ds:X509Certificate").
		SetText(base64.StdEncoding.EncodeToString(s.cert.Raw))
	return sig
}

func signatureSlot(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("ubl: documento sin raíz")
	}
	content := root.FindElement(extensionContentPath)
	if content == nil {
		return nil, fmt.Errorf("ubl: no se encontró ext:ExtensionContent")
	}
	return content, nil
}

// canonicalSignedInfo aplica C14N inclusivo a ds:SignedInfo tal como está en el
// documento: los namespaces declarados en los ancestros se copian al elemento.
func canonicalSignedInfo(si *etree.Element) ([]byte, error) {
	cp := si.Copy()
	for p := si.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			if a.Space != "xmlns" && !(a.Space == "" && a.Key == "xmlns") {
				continue
			}
			if cp.SelectAttr(a.FullKey()) == nil {
				cp.CreateAttr(a.FullKey(), a.Value)
			}
		}
	}
	d := etree.NewDocument()
	d.SetRoot(cp)
	raw, err := d.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar SignedInfo: %w", err)
	}
	return Canonicalize(raw)
}
