package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Facturacion-api/docs"
	appanalytics "github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	dombilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	infracache "github.com/jhoicas/Facturacion-api/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/Facturacion-api/internal/infrastructure/excel"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Facturacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	infraubl "github.com/jhoicas/Facturacion-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// storage repositorios del driver elegido (DB_DRIVER).
type storage struct {
	tx         billing.BillingTxRunner
	invoices   repository.InvoiceRepository
	customers  repository.CustomerRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	movements  repository.StockMovementRepository
	dashboard  repository.DashboardRepository
	close      func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (storage, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return storage{
			tx:         s,
			invoices:   s.Invoices(),
			customers:  s.Customers(),
			products:   s.Products(),
			categories: s.Categories(),
			users:      s.Users(),
			movements:  s.Movements(),
			dashboard:  s.Dashboard(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return storage{}, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return storage{}, err
	}
	return storage{
		tx:         postgres.NewTxRunner(pool),
		invoices:   postgres.NewInvoiceRepository(pool),
		customers:  postgres.NewCustomerRepository(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		users:      postgres.NewUserRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		dashboard:  postgres.NewDashboardRepository(pool),
		close:      pool.Close,
	}, nil
}

// @title                       Facturación API
// @version                     1.0
// @description                 API de facturación electrónica: clientes, productos, facturas y dashboard.
// @host                        localhost:8080
// @BasePath                    /
// @schemes                     http
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Escriba "Bearer" seguido del token JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	// Cache del dashboard: opcional, sin REDIS_ADDR se consulta siempre la DB
	var summaryCache appanalytics.SummaryCache
	if cfg.Redis.Addr != "" {
		rdb, err := infracache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin cache")
		} else {
			defer rdb.Close()
			summaryCache = infracache.NewSummaryCache(rdb, time.Duration(cfg.Redis.DashboardTTL)*time.Second)
		}
	}

	issuer := billing.Issuer{
		RUC:       cfg.Billing.IssuerRUC,
		LegalName: cfg.Billing.IssuerName,
		Address:   cfg.Billing.IssuerAddress,
		Currency:  cfg.Billing.Currency,
	}
	invoiceUC := billing.NewInvoiceUseCase(
		st.tx, st.invoices, st.customers, st.products, st.users,
		billing.InvoiceConfig{
			DefaultSeries: cfg.Billing.DefaultSeries,
			Calculator:    dombilling.NewCalculator(cfg.Billing.IGVRate),
		},
		log.Component("facturas"),
	)

	// PDF y XML UBL 2.1 comparten el cargador del documento
	xmlBuilder := infraubl.NewBuilder()
	docLoader := billing.NewDocumentLoader(st.invoices, st.customers, st.products, issuer)
	invoicePDFUC := billing.NewPDFUseCase(docLoader, infrapdf.NewMarotoPDFGenerator(), xmlBuilder)
	invoiceXMLUC := billing.NewXMLUseCase(docLoader, xmlBuilder)
	if cfg.Billing.CertPath != "" {
		cert, err := infraubl.LoadCertificate(cfg.Billing.CertPath, cfg.Billing.CertPassword)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Billing.CertPath).Msg("certificado de firma")
		}
		signer, err := infraubl.NewSigner(cert)
		if err != nil {
			log.Fatal().Err(err).Msg("certificado de firma")
		}
		invoiceXMLUC.WithSigner(signer)
		log.Info().Str("sujeto", cert.Leaf.Subject.String()).Msg("firma de XML activada")
	} else {
		log.Warn().Msg("BILLING_CERT_PATH vacío: XML sin firma")
	}
	exportUC := billing.NewExportUseCase(st.invoices, st.customers, infraexcel.NewInvoiceExporter())

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var authLimiter *httpRouter.RateLimiter
	if cfg.Limits.AuthPerMinute > 0 {
		authLimiter = httpRouter.NewRateLimiter(cfg.Limits.AuthPerMinute, cfg.Limits.AuthBurst)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	// Documento OpenAPI con el host real del despliegue
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CustomerUC:  billing.NewCustomerUseCase(st.customers, st.invoices),
		CategoryUC:  usecase.NewCategoryUseCase(st.categories, st.products),
		ProductUC:   usecase.NewProductUseCase(st.products, st.categories, st.invoices, st.movements),
		UserUC:      usecase.NewUserUseCase(st.users),
		InvoiceUC:   invoiceUC,
		InvoicePDF:  invoicePDFUC,
		InvoiceXML:  invoiceXMLUC,
		Export:      exportUC,
		DashboardUC: appanalytics.NewDashboardUseCase(st.dashboard, summaryCache, log.Component("dashboard")),
		RestockUC:   appanalytics.NewReplenishmentUseCase(st.dashboard),
		AuthLimiter: authLimiter,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
