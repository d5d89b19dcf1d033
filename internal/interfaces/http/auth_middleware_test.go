package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Facturacion-api/pkg/jwt"
)

const (
	mwSecret = "clave-de-prueba-middleware"
	mwUserID = "0b7f7c3e-1d2a-4c55-9a10-3f6e2d1c0a01"
)

func signToken(t *testing.T, secret, userID, role string, expMinutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, userID, role, "facturacion-api", expMinutes)
	require.NoError(t, err)
	return tok
}

// anularApp emula la ruta de anulación: solo admin.
func anularApp() *fiber.App {
	app := fiber.New()
	app.Post("/facturas/:id/anular",
		apphttp.AuthMiddleware(mwSecret),
		apphttp.RequireRole("admin"),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"usuario": apphttp.GetUserID(c), "rol": apphttp.GetRole(c)})
		},
	)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, authorization string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var body dto.ErrorResponse
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

// ── AuthMiddleware ───────────────────────────────────────────────────────────

func TestAuthMiddleware_CabecerasRechazadas(t *testing.T) {
	valid := signToken(t, mwSecret, mwUserID, "admin", 30)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token sin esquema", valid, "INVALID_TOKEN"},
		{"bearer vacío", "Bearer   ", "MISSING_TOKEN"},
		{"token malformado", "Bearer abc.def.ghi", "INVALID_TOKEN"},
		{"otra clave", "Bearer " + signToken(t, "otra-clave", mwUserID, "admin", 30), "INVALID_TOKEN"},
		{"expirado", "Bearer " + signToken(t, mwSecret, mwUserID, "admin", -5), "INVALID_TOKEN"},
		{"sin usuario", "Bearer " + signToken(t, mwSecret, "", "admin", 30), "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, anularApp(), http.MethodPost, "/facturas/f1/anular", tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuthMiddleware_EsquemaSinDistinguirMayusculas(t *testing.T) {
	tok := signToken(t, mwSecret, mwUserID, "admin", 30)
	resp, _ := call(t, anularApp(), http.MethodPost, "/facturas/f1/anular", "bearer "+tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mwUserID, body["usuario"])
	assert.Equal(t, "admin", body["rol"])
}

// ── RequireRole ──────────────────────────────────────────────────────────────

func TestRequireRole_PorRol(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"admin anula", []string{"admin"}, "admin", http.StatusOK, ""},
		{"vendedor no anula", []string{"admin"}, "vendedor", http.StatusForbidden, "FORBIDDEN"},
		{"vendedor emite", []string{"admin", "vendedor"}, "vendedor", http.StatusOK, ""},
		{"rol desconocido", []string{"admin", "vendedor"}, "contador", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{"admin"}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/facturas", apphttp.AuthMiddleware(mwSecret), apphttp.RequireRole(tc.allowed...),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			resp, body := call(t, app, http.MethodPost, "/facturas",
				"Bearer "+signToken(t, mwSecret, mwUserID, tc.role, 30))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestRequireRole_SinAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/usuarios", apphttp.RequireRole("admin"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, body := call(t, app, http.MethodGet, "/usuarios", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", body.Code)
}
