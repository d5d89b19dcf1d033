package sunat_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/sunat"
)

func TestValidateRUC(t *testing.T) {
	cases := []struct {
		ruc   string
		valid bool
	}{
		{"20100070970", true},
		{"20131312955", true},
		{"20000000001", true},
		{"20131312954", false}, // dígito verificador
		{"30131312955", false}, // prefijo
		{"2013131295", false},  // longitud
		{"2013131295A", false},
	}
	for _, tc := range cases {
		t.Run(tc.ruc, func(t *testing.T) {
			err := sunat.ValidateRUC(tc.ruc)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestComputeRUCCheckDigit(t *testing.T) {
	dv, err := sunat.ComputeRUCCheckDigit("2010007097")
	require.NoError(t, err)
	assert.Equal(t, byte('0'), dv)

	_, err = sunat.ComputeRUCCheckDigit("123")
	assert.Error(t, err)
}

func TestIdentityCode(t *testing.T) {
	assert.Equal(t, "1", sunat.IdentityCode("DNI"))
	assert.Equal(t, "4", sunat.IdentityCode("CE"))
	assert.Equal(t, "6", sunat.IdentityCode("RUC"))
	assert.Equal(t, "0", sunat.IdentityCode("PASAPORTE"))
}

func TestCompressXMLToZip(t *testing.T) {
	xmlName, zipName := sunat.Filenames("20000000001", sunat.DocTypeInvoice, "F001", "00000001")
	assert.Equal(t, "20000000001-01-F001-00000001.xml", xmlName)
	assert.Equal(t, "20000000001-01-F001-00000001.zip", zipName)

	data, err := sunat.CompressXMLToZip([]byte("<Invoice/>"), xmlName)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, xmlName, zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<Invoice/>", string(content))
}
