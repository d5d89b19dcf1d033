package billing

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
	"github.com/jhoicas/Facturacion-api/pkg/sunat"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo, now: time.Now}
}

// Create crea un nuevo cliente. El número de documento es único.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	docType := strings.ToUpper(strings.TrimSpace(in.TipoDocumento))
	docNumber := strings.TrimSpace(in.NumeroDocumento)
	if err := validateDocument(docType, docNumber); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.RazonSocial) == "" {
		return nil, domain.NewValidationError("razonSocial", "requerido")
	}
	existing, err := uc.repo.GetByDocumentNumber(ctx, docNumber)
	if err != nil {
		return nil, fmt.Errorf("buscar cliente: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	customer := &entity.Customer{
		ID:             uuid.New().String(),
		DocumentType:   docType,
		DocumentNumber: docNumber,
		LegalName:      strings.TrimSpace(in.RazonSocial),
		Address:        strings.TrimSpace(in.Direccion),
		Phone:          strings.TrimSpace(in.Telefono),
		Email:          strings.TrimSpace(in.Email),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	return toCustomerResponse(c), nil
}

// List lista clientes; search filtra por razón social o documento.
func (uc *CustomerUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica los campos enviados (nil = sin cambio).
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, &domain.NotFoundError{Resource: "cliente", ID: id}
	}

	docType, docNumber := c.DocumentType, c.DocumentNumber
	if in.TipoDocumento != nil {
		docType = strings.ToUpper(strings.TrimSpace(*in.TipoDocumento))
	}
	if in.NumeroDocumento != nil {
		docNumber = strings.TrimSpace(*in.NumeroDocumento)
	}
	if err := validateDocument(docType, docNumber); err != nil {
		return nil, err
	}
	if docNumber != c.DocumentNumber {
		other, err := uc.repo.GetByDocumentNumber(ctx, docNumber)
		if err != nil {
			return nil, fmt.Errorf("buscar cliente: %w", err)
		}
		if other != nil && other.ID != c.ID {
			return nil, domain.ErrDuplicate
		}
	}
	c.DocumentType, c.DocumentNumber = docType, docNumber

	if in.RazonSocial != nil {
		name := strings.TrimSpace(*in.RazonSocial)
		if name == "" {
			return nil, domain.NewValidationError("razonSocial", "requerido")
		}
		c.LegalName = name
	}
	if in.Direccion != nil {
		c.Address = strings.TrimSpace(*in.Direccion)
	}
	if in.Telefono != nil {
		c.Phone = strings.TrimSpace(*in.Telefono)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente sin facturas asociadas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return &domain.NotFoundError{Resource: "cliente", ID: id}
	}
	used, err := uc.invoiceRepo.ExistsByCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("verificar facturas del cliente: %w", err)
	}
	if used {
		return domain.ErrInUse
	}
	return uc.repo.Delete(ctx, id)
}

// validateDocument DNI 8 dígitos, RUC 11 dígitos con dígito verificador, CE 9 a 12 caracteres.
func validateDocument(docType, number string) error {
	switch docType {
	case entity.DocTypeDNI:
		if len(number) != 8 || !allDigits(number) {
			return domain.NewValidationError("numeroDocumento", "el DNI debe tener 8 dígitos")
		}
	case entity.DocTypeRUC:
		if err := sunat.ValidateRUC(number); err != nil {
			return domain.NewValidationError("numeroDocumento", "RUC inválido")
		}
	case entity.DocTypeCE:
		if len(number) < 9 || len(number) > 12 {
			return domain.NewValidationError("numeroDocumento", "el carné de extranjería debe tener entre 9 y 12 caracteres")
		}
	default:
		return domain.NewValidationError("tipoDocumento", "debe ser DNI, RUC o CE")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:              c.ID,
		TipoDocumento:   c.DocumentType,
		NumeroDocumento: c.DocumentNumber,
		RazonSocial:     c.LegalName,
		Direccion:       c.Address,
		Telefono:        c.Phone,
		Email:           c.Email,
		CreatedAt:       dto.FormatTimestamp(c.CreatedAt),
		UpdatedAt:       dto.FormatTimestamp(c.UpdatedAt),
	}
}
