package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustLine(t *testing.T, productID string, qty int, price, discount string) billing.LineItem {
	t.Helper()
	li, err := billing.NewLineItem(productID, qty, dec(price), dec(discount))
	require.NoError(t, err)
	return li
}

// ──────────────────────────────────────────────────────────────────────────────
// LineItem
// ──────────────────────────────────────────────────────────────────────────────

func TestLineItem_Subtotal(t *testing.T) {
	cases := []struct {
		name     string
		qty      int
		price    string
		discount string
		want     string
	}{
		{"sin descuento", 2, "100.00", "0", "200.00"},
		{"con descuento", 1, "50.00", "5.00", "45.00"},
		{"descuento total", 3, "10.00", "30.00", "0.00"},
		{"precio cero", 5, "0", "0", "0.00"},
		{"redondeo mitad hacia arriba", 1, "10.005", "0", "10.01"},
		{"redondeo hacia abajo", 3, "0.333", "0", "1.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			li := mustLine(t, "p-1", tc.qty, tc.price, tc.discount)
			assert.True(t, dec(tc.want).Equal(li.Subtotal()), "esperado %s, obtenido %s", tc.want, li.Subtotal())
		})
	}
}

func TestNewLineItem_Rechaza(t *testing.T) {
	cases := []struct {
		name     string
		qty      int
		price    string
		discount string
		field    string
	}{
		{"cantidad cero", 0, "10", "0", "cantidad"},
		{"cantidad negativa", -1, "10", "0", "cantidad"},
		{"precio negativo", 1, "-0.01", "0", "precioUnitario"},
		{"descuento negativo", 1, "10", "-1", "descuento"},
		{"descuento excesivo", 2, "10", "20.01", "descuento"},
		{"descuento con fracción de céntimo", 1, "10", "0.005", "descuento"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := billing.NewLineItem("p-1", tc.qty, dec(tc.price), dec(tc.discount))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestNewLineItem_SinProducto(t *testing.T) {
	_, err := billing.NewLineItem("", 1, dec("1"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compute
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: 2×100 + (1×50 − 5) con IGV 18%.
func TestCompute_EscenarioReferencia(t *testing.T) {
	items := []billing.LineItem{
		mustLine(t, "p-1", 2, "100.00", "0"),
		mustLine(t, "p-2", 1, "50.00", "5.00"),
	}
	totals, err := billing.Compute(items, decimal.Zero, dec("0.18"), true)
	require.NoError(t, err)

	assert.Equal(t, "245.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "44.10", totals.IGV.StringFixed(2))
	assert.True(t, totals.Discount.IsZero())
	assert.Equal(t, "289.10", totals.Total.StringFixed(2))
}

func TestCompute_SubtotalEsSumaDeLineas(t *testing.T) {
	items := []billing.LineItem{
		mustLine(t, "a", 3, "19.99", "0.97"),
		mustLine(t, "b", 7, "0.35", "0"),
		mustLine(t, "c", 1, "1234.56", "34.56"),
	}
	want := decimal.Zero
	for _, li := range items {
		want = want.Add(li.Subtotal())
	}
	for _, rate := range []string{"0", "0.18", "0.10"} {
		totals, err := billing.Compute(items, decimal.Zero, dec(rate), true)
		require.NoError(t, err)
		assert.True(t, want.Equal(totals.Subtotal), "tasa %s", rate)
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.IGV)), "tasa %s", rate)
	}
}

func TestCompute_DescuentoTopado(t *testing.T) {
	items := []billing.LineItem{mustLine(t, "p-1", 1, "100.00", "0")}
	totals, err := billing.Compute(items, dec("1000000"), dec("0.18"), true)
	require.NoError(t, err)

	assert.Equal(t, "118.00", totals.Discount.StringFixed(2), "el descuento se limita a subtotal + igv")
	assert.True(t, totals.Total.IsZero(), "el total nunca es negativo")
}

func TestCompute_DescuentoParcial(t *testing.T) {
	items := []billing.LineItem{mustLine(t, "p-1", 1, "100.00", "0")}
	totals, err := billing.Compute(items, dec("18.00"), dec("0.18"), true)
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.Total.StringFixed(2))
}

func TestCompute_Idempotente(t *testing.T) {
	items := []billing.LineItem{
		mustLine(t, "p-1", 3, "33.33", "0.01"),
		mustLine(t, "p-2", 1, "0.10", "0"),
	}
	a, errA := billing.Compute(items, dec("1.50"), dec("0.18"), true)
	b, errB := billing.Compute(items, dec("1.50"), dec("0.18"), true)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.IGV.Equal(b.IGV))
	assert.True(t, a.Discount.Equal(b.Discount))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestCompute_ListaVacia(t *testing.T) {
	_, err := billing.Compute(nil, decimal.Zero, dec("0.18"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	totals, err := billing.Compute(nil, decimal.Zero, dec("0.18"), false)
	require.NoError(t, err, "sin finalizar se permite la lista vacía")
	assert.True(t, totals.Total.IsZero())
}

func TestCompute_EntradasInvalidas(t *testing.T) {
	items := []billing.LineItem{mustLine(t, "p-1", 1, "10", "0")}

	_, err := billing.Compute(items, dec("-1"), dec("0.18"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento negativo")

	_, err = billing.Compute(items, dec("0.001"), dec("0.18"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento con fracción de céntimo")

	_, err = billing.Compute(items, decimal.Zero, dec("-0.18"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tasa negativa")
}

func TestCalculator_UsaTasaConfigurada(t *testing.T) {
	calc := billing.NewCalculator(billing.DefaultIGVRate)
	items := []billing.LineItem{mustLine(t, "p-1", 1, "10.00", "0")}
	totals, err := calc.Compute(items, decimal.Zero, true)
	require.NoError(t, err)
	assert.Equal(t, "1.80", totals.IGV.StringFixed(2))
	assert.Equal(t, "11.80", totals.Total.StringFixed(2))
}
