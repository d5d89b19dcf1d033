package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "admin", "facturacion-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "vendedor", "facturacion-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "vendedor", "facturacion-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "admin", "x", 5)
	assert.Error(t, err)
}
