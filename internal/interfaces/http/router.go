package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *billing.CustomerUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	UserUC      *usecase.UserUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	InvoiceXML  *billing.XMLUseCase
	Export      *billing.ExportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	RestockUC   *appanalytics.ReplenishmentUseCase
	AuthLimiter *RateLimiter // nil = sin límite en login/registro
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", limited(deps.AuthLimiter, authHandler.Register)...)
	authGroup.Post("/login", limited(deps.AuthLimiter, authHandler.Login)...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), anyRole)
	protected.Get("/auth/me", authHandler.Me)

	// Clientes
	customers := protected.Group("/clientes")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Categorías
	categories := protected.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Productos
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movimientos", productHandler.Movements)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Facturas (export antes de /:id)
	invoices := protected.Group("/facturas")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF, deps.InvoiceXML, deps.Export)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id", invoiceHandler.Update)
	invoices.Post("/:id/pagar", invoiceHandler.MarkPaid)
	invoices.Post("/:id/anular", adminOnly, invoiceHandler.Void)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.RestockUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
	protected.Get("/dashboard/reposicion", dashboardHandler.Replenishment)

	// Usuarios (admin)
	users := protected.Group("/usuarios", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}

// limited antepone el limitador al handler cuando está configurado.
func limited(rl *RateLimiter, h fiber.Handler) []fiber.Handler {
	if rl == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{rl.Handler(), h}
}
