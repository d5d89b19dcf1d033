package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func TestBuildPoolConfig_Defaults(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{
		Host: "db.local", Port: 5432, User: "app", Password: "p@ss:word", DBName: "facturacion", SSLMode: "disable",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
	assert.Equal(t, int32(defaultMinConns), pc.MinConns)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestBuildPoolConfig_DatabaseURLYLimites(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@10.0.0.5:6543/fact?sslmode=disable&application_name=reportes",
		Host:        "ignorado",
		MaxConns:    4,
		MinConns:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns, "min no supera max")
	assert.Equal(t, "reportes", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestBuildPoolConfig_URLInvalida(t *testing.T) {
	_, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 7, orDefault(7, 3))
	assert.Equal(t, 3, orDefault(0, 3))
	assert.Equal(t, 3, orDefault(-1, 3))
}
