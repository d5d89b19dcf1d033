package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_UTF8(t *testing.T) {
	in := "codigo,nombre,precio,stock,categoria\nA-1,Cable UTP,2.50,100,Redes\nA-2, Conector RJ45 ,0.80,500,Redes\n"
	rows, err := parseCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0].Code)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, "Conector RJ45", rows[1].Name)
	assert.Equal(t, 500, rows[1].Stock)
}

func TestParseCatalog_Latin1(t *testing.T) {
	// "Cañería" en ISO-8859-1: ñ = 0xF1
	in := []byte("codigo,nombre,precio,stock,categoria\nB-1,Ca\xf1er\xeda,10,1,Gasfiter\xeda\n")
	rows, err := parseCatalog(bytes.NewReader(in), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cañería", rows[0].Name)
	assert.Equal(t, "Gasfitería", rows[0].Category)
}

func TestParseCatalog_PrecioInvalido(t *testing.T) {
	in := "codigo,nombre,precio,stock,categoria\nA-1,Cable,abc,1,Redes\n"
	_, err := parseCatalog(strings.NewReader(in), false)
	assert.ErrorContains(t, err, "línea 2")
}
