package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Codigo         string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre         string          `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion    *string         `json:"descripcion" validate:"omitempty,max=1000"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Stock          int             `json:"stock" validate:"min=0"`
	CategoriaID    string          `json:"categoriaId" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no cambian).
type UpdateProductRequest struct {
	Nombre         *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion    *string          `json:"descripcion" validate:"omitempty,max=1000"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario"`
	Stock          *int             `json:"stock" validate:"omitempty,min=0"`
	CategoriaID    *string          `json:"categoriaId" validate:"omitempty,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string  `json:"id"`
	Codigo         string  `json:"codigo"`
	Nombre         string  `json:"nombre"`
	Descripcion    *string `json:"descripcion"`
	PrecioUnitario Money   `json:"precioUnitario"`
	Stock          int     `json:"stock"`
	CategoriaID    string  `json:"categoriaId"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMovementResponse salida de un movimiento del kardex.
type StockMovementResponse struct {
	ID         string  `json:"id"`
	ProductoID string  `json:"productoId"`
	FacturaID  *string `json:"facturaId"`
	Tipo       string  `json:"tipo"`
	Cantidad   int     `json:"cantidad"`
	Referencia string  `json:"referencia"`
	UsuarioID  string  `json:"usuarioId,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// StockMovementListResponse lista paginada del kardex de un producto.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Nombre      string `json:"nombre" validate:"required,min=1,max=100"`
	Descripcion string `json:"descripcion" validate:"max=500"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
