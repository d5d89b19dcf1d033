package billing

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// InvoiceConfig parámetros de facturación del caso de uso.
type InvoiceConfig struct {
	DefaultSeries string          // serie usada cuando el request no trae una
	Calculator    billing.Calculator
}

// InvoiceUseCase crea facturas, las consulta y aplica sus cambios de estado.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	cfg          InvoiceConfig
	log          *logger.Logger
	now          func() time.Time
	newID        func() string
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	cfg InvoiceConfig,
	log *logger.Logger,
) *InvoiceUseCase {
	if cfg.DefaultSeries == "" {
		cfg.DefaultSeries = "F001"
	}
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func (uc *InvoiceUseCase) WithIDGenerator(newID func() string) *InvoiceUseCase {
	uc.newID = newID
	return uc
}

// Create valida las líneas, calcula totales, reserva el correlativo de la serie,
// descuenta stock y guarda cabecera + detalles en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResource, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.ClienteID) == "" {
		return nil, domain.NewValidationError("clienteId", "requerido")
	}
	if len(in.Detalles) == 0 {
		return nil, domain.NewValidationError("detalles", "la factura requiere al menos una línea")
	}

	now := uc.now()
	issueDate := truncateDay(now)
	if in.FechaEmision != "" {
		d, err := time.ParseInLocation(dto.DateLayout, in.FechaEmision, now.Location())
		if err != nil {
			return nil, domain.NewValidationError("fechaEmision", "formato esperado YYYY-MM-DD")
		}
		issueDate = d
	}
	dueDate, err := parseOptionalDate(in.FechaVencimiento, "fechaVencimiento", now.Location())
	if err != nil {
		return nil, err
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, domain.NewValidationError("fechaVencimiento", "anterior a la fecha de emisión")
	}

	series := strings.ToUpper(strings.TrimSpace(in.Serie))
	if series == "" {
		series = uc.cfg.DefaultSeries
	}

	customer, err := uc.customerRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: in.ClienteID}
	}

	// Validar productos y líneas (fuera de la tx, solo lectura)
	items := make([]billing.LineItem, 0, len(in.Detalles))
	for i, item := range in.Detalles {
		product, err := uc.productRepo.GetByID(ctx, item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("obtener producto: %w", err)
		}
		if product == nil {
			return nil, &domain.NotFoundError{Resource: "producto", ID: item.ProductoID}
		}
		price := product.UnitPrice
		if item.PrecioUnitario != nil {
			price = *item.PrecioUnitario
		}
		li, err := billing.NewLineItem(item.ProductoID, item.Cantidad, price, item.Descuento)
		if err != nil {
			return nil, prefixField(err, fmt.Sprintf("detalles[%d]", i))
		}
		items = append(items, li)
	}

	totals, err := uc.cfg.Calculator.Compute(items, in.Descuento, true)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:         uc.newID(),
		Series:     series,
		CustomerID: customer.ID,
		UserID:     userID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     billing.StatusIssued,
		Notes:      emptyToNil(in.Observaciones),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	inv.ApplyTotals(totals)

	details := make([]*entity.InvoiceDetail, 0, len(items))
	for i, li := range items {
		details = append(details, entity.NewInvoiceDetail(uc.newID(), inv.ID, i+1, li))
	}

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// 1) Correlativo de la serie (bloqueado hasta el commit)
		n, err := invoiceRepo.NextNumber(ctx, series)
		if err != nil {
			return fmt.Errorf("reservar correlativo: %w", err)
		}
		inv.Number = fmt.Sprintf("%08d", n)

		// 2) Cabecera y detalles
		if err := invoiceRepo.Create(ctx, inv, details); err != nil {
			return err
		}

		// 3) Salida de stock por producto; si falta stock se hace rollback
		return uc.moveStock(ctx, productRepo, movementRepo, inv, details, entity.MovementTypeOut, userID)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("factura_id", inv.ID).
		Str("numero", inv.FullNumber()).
		Str("total", inv.Total.StringFixed(2)).
		Str("usuario_id", userID).
		Msg("factura emitida")

	res := NewInvoiceResource(inv, details, customer, nil)
	return &res, nil
}

// Get obtiene una factura por ID cargando solo las asociaciones pedidas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string, include Include) (*dto.InvoiceResource, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, &domain.NotFoundError{Resource: "factura", ID: id}
	}
	res, err := uc.project(ctx, inv, include)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List lista facturas según el filtro. Include.Details se ignora en listados.
func (uc *InvoiceUseCase) List(ctx context.Context, filter repository.InvoiceFilter, include Include) (*dto.InvoiceListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("estado", "valor desconocido")
	}

	list, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	total, err := uc.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("contar facturas: %w", err)
	}

	include.Details = false
	customers := map[string]*entity.Customer{}
	users := map[string]*entity.User{}
	items := make([]dto.InvoiceResource, 0, len(list))
	for _, inv := range list {
		var customer *entity.Customer
		if include.Customer {
			if customer, err = cachedCustomer(ctx, uc.customerRepo, customers, inv.CustomerID); err != nil {
				return nil, err
			}
		}
		var user *entity.User
		if include.User {
			if user, err = cachedUser(ctx, uc.userRepo, users, inv.UserID); err != nil {
				return nil, err
			}
		}
		items = append(items, NewInvoiceResource(inv, nil, customer, user))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// MarkPaid registra el pago de una factura emitida.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id, userID string) (*dto.InvoiceResource, error) {
	return uc.transition(ctx, id, userID, billing.ActionMarkPaid)
}

// Void anula una factura emitida y devuelve al stock las cantidades vendidas.
func (uc *InvoiceUseCase) Void(ctx context.Context, id, userID string) (*dto.InvoiceResource, error) {
	return uc.transition(ctx, id, userID, billing.ActionVoid)
}

// transition bloquea la fila, valida la transición y la guarda de forma
// condicional. Si dos llamadas compiten, la segunda ve el estado terminal y
// recibe InvalidStateTransitionError.
func (uc *InvoiceUseCase) transition(ctx context.Context, id, userID string, action billing.Action) (*dto.InvoiceResource, error) {
	var inv *entity.Invoice
	var from billing.Status
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener factura: %w", err)
		}
		if inv == nil {
			return &domain.NotFoundError{Resource: "factura", ID: id}
		}
		from = inv.Status
		version := inv.Version

		now := uc.now()
		switch action {
		case billing.ActionMarkPaid:
			err = inv.MarkPaid(now)
		case billing.ActionVoid:
			err = inv.Void(now)
		default:
			err = &domain.InvalidStateTransitionError{From: string(from), Action: string(action)}
		}
		if err != nil {
			return err
		}
		if err := invoiceRepo.UpdateStatus(ctx, id, from, inv.Status, version, now); err != nil {
			return err
		}

		if action == billing.ActionVoid {
			details, err := invoiceRepo.GetDetailsByInvoiceID(ctx, id)
			if err != nil {
				return fmt.Errorf("obtener detalles: %w", err)
			}
			return uc.moveStock(ctx, productRepo, movementRepo, inv, details, entity.MovementTypeIn, userID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) || errors.Is(err, domain.ErrConcurrencyConflict) {
			uc.log.Warn().Err(err).Str("factura_id", id).Str("accion", string(action)).Msg("transición rechazada")
		}
		return nil, err
	}

	uc.log.Info().
		Str("factura_id", inv.ID).
		Str("de", string(from)).
		Str("a", string(inv.Status)).
		Msg("estado de factura actualizado")

	res := NewInvoiceResource(inv, nil, nil, nil)
	return &res, nil
}

// UpdateNotes modifica observaciones y/o fecha de vencimiento. Los campos
// monetarios y las líneas no se pueden cambiar después de la emisión.
func (uc *InvoiceUseCase) UpdateNotes(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResource, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, &domain.NotFoundError{Resource: "factura", ID: id}
	}
	if in.Observaciones != nil {
		inv.Notes = emptyToNil(in.Observaciones)
	}
	if in.FechaVencimiento != nil {
		due, err := parseOptionalDate(in.FechaVencimiento, "fechaVencimiento", inv.IssueDate.Location())
		if err != nil {
			return nil, err
		}
		if due != nil && due.Before(inv.IssueDate) {
			return nil, domain.NewValidationError("fechaVencimiento", "anterior a la fecha de emisión")
		}
		inv.DueDate = due
	}
	inv.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateNotes(ctx, inv); err != nil {
		return nil, err
	}
	res := NewInvoiceResource(inv, nil, nil, nil)
	return &res, nil
}

func (uc *InvoiceUseCase) project(ctx context.Context, inv *entity.Invoice, include Include) (dto.InvoiceResource, error) {
	var (
		details  []*entity.InvoiceDetail
		customer *entity.Customer
		user     *entity.User
		err      error
	)
	if include.Details {
		if details, err = uc.invoiceRepo.GetDetailsByInvoiceID(ctx, inv.ID); err != nil {
			return dto.InvoiceResource{}, fmt.Errorf("obtener detalles: %w", err)
		}
		if details == nil {
			details = []*entity.InvoiceDetail{}
		}
	}
	if include.Customer {
		if customer, err = uc.customerRepo.GetByID(ctx, inv.CustomerID); err != nil {
			return dto.InvoiceResource{}, fmt.Errorf("obtener cliente: %w", err)
		}
	}
	if include.User {
		if user, err = uc.userRepo.GetByID(ctx, inv.UserID); err != nil {
			return dto.InvoiceResource{}, fmt.Errorf("obtener usuario: %w", err)
		}
	}
	return NewInvoiceResource(inv, details, customer, user), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// moveStock aplica al stock las cantidades de la factura y deja un movimiento
// de kardex por producto. Los productos se recorren en orden de ID para que dos
// transacciones concurrentes bloqueen las filas en el mismo orden.
func (uc *InvoiceUseCase) moveStock(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	inv *entity.Invoice,
	details []*entity.InvoiceDetail,
	movementType string,
	userID string,
) error {
	qty := quantitiesByProduct(details)
	now := uc.now()
	for _, productID := range slices.Sorted(maps.Keys(qty)) {
		delta := qty[productID]
		if movementType == entity.MovementTypeOut {
			delta = -delta
		}
		if err := productRepo.AdjustStock(ctx, productID, delta); err != nil {
			return err
		}
		invoiceID := inv.ID
		err := movementRepo.Create(ctx, &entity.StockMovement{
			ID:        uc.newID(),
			ProductID: productID,
			InvoiceID: &invoiceID,
			Type:      movementType,
			Quantity:  delta,
			Reference: inv.FullNumber(),
			CreatedAt: now,
			CreatedBy: userID,
		})
		if err != nil {
			return fmt.Errorf("registrar movimiento: %w", err)
		}
	}
	return nil
}

func quantitiesByProduct(details []*entity.InvoiceDetail) map[string]int {
	out := make(map[string]int, len(details))
	for _, d := range details {
		out[d.ProductID] += d.Quantity
	}
	return out
}

func cachedCustomer(ctx context.Context, repo repository.CustomerRepository, cache map[string]*entity.Customer, id string) (*entity.Customer, error) {
	if c, ok := cache[id]; ok {
		return c, nil
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	cache[id] = c
	return c, nil
}

func cachedUser(ctx context.Context, repo repository.UserRepository, cache map[string]*entity.User, id string) (*entity.User, error) {
	if u, ok := cache[id]; ok {
		return u, nil
	}
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	cache[id] = u
	return u, nil
}

// prefixField antepone la ruta de la línea al campo de un ValidationError.
func prefixField(err error, prefix string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &domain.ValidationError{Field: prefix + "." + ve.Field, Reason: ve.Reason}
	}
	return err
}

func parseOptionalDate(s *string, field string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(*s), loc)
	if err != nil {
		return nil, domain.NewValidationError(field, "formato esperado YYYY-MM-DD")
	}
	return &d, nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
