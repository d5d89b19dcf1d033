// seed carga datos iniciales: usuario administrador, categorías, productos y
// clientes de ejemplo. Los registros que ya existen se omiten.
//
// Uso: go run ./cmd/seed [-catalogo productos.csv] [-latin1] [-admin-email x] [-admin-password y]
//
// El CSV de catálogo tiene cabecera codigo,nombre,precio,stock,categoria. Con
// -latin1 se lee como ISO-8859-1 (exportaciones de Excel en Windows).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

type catalogRow struct {
	Code     string
	Name     string
	Price    decimal.Decimal
	Stock    int
	Category string
}

var demoCatalog = []catalogRow{
	{Code: "SRV-001", Name: "Soporte técnico (hora)", Price: decimal.RequireFromString("80.00"), Stock: 9999, Category: "Servicios"},
	{Code: "SRV-002", Name: "Instalación de red", Price: decimal.RequireFromString("350.00"), Stock: 9999, Category: "Servicios"},
	{Code: "HW-001", Name: "Router inalámbrico", Price: decimal.RequireFromString("189.90"), Stock: 25, Category: "Equipos"},
	{Code: "HW-002", Name: "Switch 8 puertos", Price: decimal.RequireFromString("129.50"), Stock: 40, Category: "Equipos"},
}

var demoCustomers = []dto.CreateCustomerRequest{
	{TipoDocumento: entity.DocTypeRUC, NumeroDocumento: "20100070970", RazonSocial: "Comercial Andina S.A.C.", Direccion: "Av. Arequipa 1234, Lima"},
	{TipoDocumento: entity.DocTypeDNI, NumeroDocumento: "45678912", RazonSocial: "María Quispe Huamán"},
}

func main() {
	catalogPath := flag.String("catalogo", "", "CSV con productos (codigo,nombre,precio,stock,categoria)")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	adminEmail := flag.String("admin-email", "admin@facturacion.local", "email del administrador")
	adminPassword := flag.String("admin-password", "admin12345", "password del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name}).Component("seed")

	catalog := demoCatalog
	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		catalog, err = parseCatalog(f, *latin1)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer})
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, invoiceRepo, movementRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo, invoiceRepo)

	// 1. Administrador
	_, err = authUC.RegisterUser(ctx, dto.RegisterRequest{
		Email: *adminEmail, Password: *adminPassword, Name: "Administrador", Role: entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", *adminEmail).Msg("administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("email", *adminEmail).Msg("administrador creado")
	}

	// 2. Categorías (por nombre) y productos
	existing, err := categoryUC.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías")
	}
	categoryIDs := make(map[string]string, len(existing))
	for _, c := range existing {
		categoryIDs[strings.ToLower(c.Nombre)] = c.ID
	}

	created := 0
	for _, row := range catalog {
		key := strings.ToLower(row.Category)
		if _, ok := categoryIDs[key]; !ok {
			c, err := categoryUC.Create(ctx, dto.CategoryRequest{Nombre: row.Category})
			if err != nil {
				log.Fatal().Err(err).Str("categoria", row.Category).Msg("crear categoría")
			}
			categoryIDs[key] = c.ID
		}
		_, err := productUC.Create(ctx, dto.CreateProductRequest{
			Codigo: row.Code, Nombre: row.Name, PrecioUnitario: row.Price, Stock: row.Stock, CategoriaID: categoryIDs[key],
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("codigo", row.Code).Msg("crear producto")
		}
		created++
	}
	log.Info().Int("productos", created).Int("categorias", len(categoryIDs)).Msg("catálogo cargado")

	// 3. Clientes de ejemplo
	for _, c := range demoCustomers {
		if _, err := customerUC.Create(ctx, c); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Str("documento", c.NumeroDocumento).Msg("crear cliente")
		}
	}
	log.Info().Msg("seed completado")
}

// parseCatalog lee el CSV de productos. La primera fila es cabecera.
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]catalogRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q inválido", line, rec[2])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock %q inválido", line, rec[3])
		}
		out = append(out, catalogRow{
			Code:     strings.TrimSpace(rec[0]),
			Name:     strings.TrimSpace(rec[1]),
			Price:    price,
			Stock:    stock,
			Category: strings.TrimSpace(rec[4]),
		})
	}
	return out, nil
}
