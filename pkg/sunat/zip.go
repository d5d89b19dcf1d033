package sunat

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Filenames nombres del XML y del ZIP según la convención SUNAT:
// {RUC}-{TIPO}-{SERIE}-{NUMERO}, ej. 20000000001-01-F001-00000001.
func Filenames(issuerRUC, docType, series, number string) (xmlName, zipName string) {
	base := fmt.Sprintf("%s-%s-%s-%s", issuerRUC, docType, series, number)
	return base + ".xml", base + ".zip"
}

// CompressXMLToZip empaqueta el XML en un ZIP en memoria con una sola entrada.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	fw, err := zw.Create(xmlFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", xmlFilename, err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("zip: escribir XML: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
