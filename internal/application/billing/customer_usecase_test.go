package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

func TestCustomerCreate_ValidaDocumento(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers(), f.store.Invoices())
	ctx := context.Background()

	cases := []struct {
		tipo, numero string
		ok           bool
	}{
		{"DNI", "45678912", true},
		{"dni", "4567891", false},
		{"RUC", "20131312955", true},
		{"RUC", "20131312954", false}, // dígito verificador
		{"CE", "001234567", true},
		{"CE", "12345", false},
		{"PAS", "123456789", false},
	}
	for _, tc := range cases {
		_, err := uc.Create(ctx, dto.CreateCustomerRequest{TipoDocumento: tc.tipo, NumeroDocumento: tc.numero, RazonSocial: "Cliente"})
		if tc.ok {
			assert.NoError(t, err, "%s %s", tc.tipo, tc.numero)
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "%s %s", tc.tipo, tc.numero)
		}
	}
}

func TestCustomerCreate_DocumentoDuplicado(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers(), f.store.Invoices())

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{TipoDocumento: "RUC", NumeroDocumento: "20100070970", RazonSocial: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomerUpdate_CambiaSoloLoEnviado(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers(), f.store.Invoices())
	ctx := context.Background()

	phone := "01-555-1234"
	out, err := uc.Update(ctx, "c1", dto.UpdateCustomerRequest{Telefono: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, out.Telefono)
	assert.Equal(t, "GLORIA S.A.", out.RazonSocial)

	blank := "  "
	_, err = uc.Update(ctx, "c1", dto.UpdateCustomerRequest{RazonSocial: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerDelete_ConFacturasEstaEnUso(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCustomerUseCase(f.store.Customers(), f.store.Invoices())
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "u1", simpleRequest("p1", 1))
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(ctx, "c1"), domain.ErrInUse)

	free, err := uc.Create(ctx, dto.CreateCustomerRequest{TipoDocumento: "DNI", NumeroDocumento: "45678912", RazonSocial: "Juan Pérez"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, free.ID))

	_, err = uc.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, free.ID), domain.ErrNotFound)
}
