package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos.
// El stock también cambia al emitir o anular facturas; todo cambio queda en el kardex.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	invoiceRepo  repository.InvoiceRepository
	movementRepo repository.StockMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	invoiceRepo repository.InvoiceRepository,
	movementRepo repository.StockMovementRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, invoiceRepo: invoiceRepo, movementRepo: movementRepo}
}

// Create crea un nuevo producto. El código es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Codigo)
	if code == "" {
		return nil, domain.NewValidationError("codigo", "requerido")
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.NewValidationError("nombre", "requerido")
	}
	if err := validatePrice(in.PrecioUnitario); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.NewValidationError("stock", "no puede ser negativo")
	}
	if err := uc.ensureCategory(ctx, in.CategoriaID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        strings.TrimSpace(in.Nombre),
		Description: in.Descripcion,
		UnitPrice:   in.PrecioUnitario,
		Stock:       in.Stock,
		CategoryID:  in.CategoriaID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.recordAdjustment(ctx, product.ID, product.Stock, "stock inicial", now); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El código no se modifica.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	if in.Nombre != nil {
		name := strings.TrimSpace(*in.Nombre)
		if name == "" {
			return nil, domain.NewValidationError("nombre", "requerido")
		}
		product.Name = name
	}
	if in.Descripcion != nil {
		product.Description = in.Descripcion
	}
	if in.PrecioUnitario != nil {
		if err := validatePrice(*in.PrecioUnitario); err != nil {
			return nil, err
		}
		product.UnitPrice = *in.PrecioUnitario
	}
	stockDelta := 0
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.NewValidationError("stock", "no puede ser negativo")
		}
		stockDelta = *in.Stock - product.Stock
		product.Stock = *in.Stock
	}
	if in.CategoriaID != nil && *in.CategoriaID != product.CategoryID {
		if err := uc.ensureCategory(ctx, *in.CategoriaID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoriaID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.recordAdjustment(ctx, product.ID, stockDelta, "ajuste manual", product.UpdatedAt); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación; categoryID vacío no filtra.
func (uc *ProductUseCase) List(ctx context.Context, categoryID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, categoryID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto que no aparece en ninguna factura.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	used, err := uc.invoiceRepo.ExistsByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("verificar facturas del producto: %w", err)
	}
	if used {
		return domain.ErrInUse
	}
	return uc.repo.Delete(ctx, id)
}

// ListMovements devuelve el kardex de un producto, más recientes primero.
func (uc *ProductUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("hasta", "anterior a desde")
	}
	page.DefaultPage()
	list, err := uc.movementRepo.ListByProduct(ctx, productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:         m.ID,
			ProductoID: m.ProductID,
			FacturaID:  m.InvoiceID,
			Tipo:       m.Type,
			Cantidad:   m.Quantity,
			Referencia: m.Reference,
			UsuarioID:  m.CreatedBy,
			CreatedAt:  dto.FormatTimestamp(m.CreatedAt),
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// recordAdjustment deja un AJUSTE en el kardex; delta 0 no registra nada.
func (uc *ProductUseCase) recordAdjustment(ctx context.Context, productID string, delta int, reference string, at time.Time) error {
	if delta == 0 {
		return nil
	}
	err := uc.movementRepo.Create(ctx, &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      entity.MovementTypeAdjustment,
		Quantity:  delta,
		Reference: reference,
		CreatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("registrar ajuste de stock: %w", err)
	}
	return nil
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("categoriaId", "requerido")
	}
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener categoría: %w", err)
	}
	if c == nil {
		return &domain.NotFoundError{Resource: "categoria", ID: id}
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.NewValidationError("precioUnitario", "no puede ser negativo")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Codigo:         p.Code,
		Nombre:         p.Name,
		Descripcion:    p.Description,
		PrecioUnitario: dto.NewMoney(p.UnitPrice),
		Stock:          p.Stock,
		CategoriaID:    p.CategoryID,
		CreatedAt:      dto.FormatTimestamp(p.CreatedAt),
		UpdatedAt:      dto.FormatTimestamp(p.UpdatedAt),
	}
}
