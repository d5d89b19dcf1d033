package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías de producto.
type CategoryUseCase struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, productRepo: productRepo}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.NewValidationError("nombre", "requerido")
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Descripcion),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{Resource: "categoria", ID: id}
	}
	return toCategoryResponse(c), nil
}

// Update renombra una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{Resource: "categoria", ID: id}
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, domain.NewValidationError("nombre", "requerido")
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Descripcion)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List lista todas las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete elimina una categoría sin productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return &domain.NotFoundError{Resource: "categoria", ID: id}
	}
	used, err := uc.productRepo.ExistsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("verificar productos de la categoría: %w", err)
	}
	if used {
		return fmt.Errorf("%w: la categoría tiene productos", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Nombre:      c.Name,
		Descripcion: c.Description,
		CreatedAt:   dto.FormatTimestamp(c.CreatedAt),
		UpdatedAt:   dto.FormatTimestamp(c.UpdatedAt),
	}
}
