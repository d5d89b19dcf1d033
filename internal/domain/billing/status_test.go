package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

func TestTransition_DesdeEmitida(t *testing.T) {
	next, err := billing.Transition(billing.StatusIssued, billing.ActionMarkPaid)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, next)

	next, err = billing.Transition(billing.StatusIssued, billing.ActionVoid)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusVoided, next)
}

func TestTransition_PagarLuegoAnular(t *testing.T) {
	paid, err := billing.Transition(billing.StatusIssued, billing.ActionMarkPaid)
	require.NoError(t, err)

	_, err = billing.Transition(paid, billing.ActionVoid)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestTransition_AnularLuegoPagar(t *testing.T) {
	voided, err := billing.Transition(billing.StatusIssued, billing.ActionVoid)
	require.NoError(t, err)

	_, err = billing.Transition(voided, billing.ActionMarkPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

// Los estados terminales rechazan todas las acciones, incluida la repetición.
func TestTransition_EstadosTerminales(t *testing.T) {
	for _, from := range []billing.Status{billing.StatusPaid, billing.StatusVoided} {
		for _, action := range []billing.Action{billing.ActionMarkPaid, billing.ActionVoid} {
			got, err := billing.Transition(from, action)
			require.Error(t, err, "%s desde %s", action, from)

			var ste *domain.InvalidStateTransitionError
			require.ErrorAs(t, err, &ste)
			assert.Equal(t, string(from), ste.From)
			assert.Equal(t, from, got, "el estado no cambia")
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, billing.Status("emitida").Valid())
	assert.True(t, billing.Status("pagada").Valid())
	assert.True(t, billing.Status("anulada").Valid())
	assert.False(t, billing.Status("borrador").Valid())
	assert.False(t, billing.StatusIssued.Terminal())
	assert.True(t, billing.StatusVoided.Terminal())
}
