package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/clientes.
type CreateCustomerRequest struct {
	TipoDocumento   string `json:"tipoDocumento" validate:"required,oneof=DNI RUC CE"`
	NumeroDocumento string `json:"numeroDocumento" validate:"required,max=20"`
	RazonSocial     string `json:"razonSocial" validate:"required,max=200"`
	Direccion       string `json:"direccion" validate:"max=300"`
	Telefono        string `json:"telefono" validate:"max=30"`
	Email           string `json:"email" validate:"omitempty,email"`
}

// UpdateCustomerRequest body para PUT /api/clientes/:id (campos nil no cambian).
type UpdateCustomerRequest struct {
	TipoDocumento   *string `json:"tipoDocumento" validate:"omitempty,oneof=DNI RUC CE"`
	NumeroDocumento *string `json:"numeroDocumento" validate:"omitempty,max=20"`
	RazonSocial     *string `json:"razonSocial" validate:"omitempty,min=1,max=200"`
	Direccion       *string `json:"direccion" validate:"omitempty,max=300"`
	Telefono        *string `json:"telefono" validate:"omitempty,max=30"`
	Email           *string `json:"email" validate:"omitempty,email"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID              string `json:"id"`
	TipoDocumento   string `json:"tipoDocumento"`
	NumeroDocumento string `json:"numeroDocumento"`
	RazonSocial     string `json:"razonSocial"`
	Direccion       string `json:"direccion"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateInvoiceRequest body para POST /api/facturas.
// Serie vacía usa la serie por defecto; FechaEmision vacía usa la fecha actual.
type CreateInvoiceRequest struct {
	Serie            string               `json:"serie" validate:"omitempty,len=4,alphanum"`
	ClienteID        string               `json:"clienteId" validate:"required"`
	FechaEmision     string               `json:"fechaEmision" validate:"omitempty,datetime=2006-01-02"`
	FechaVencimiento *string              `json:"fechaVencimiento" validate:"omitempty,datetime=2006-01-02"`
	Descuento        decimal.Decimal      `json:"descuento"`
	Observaciones    *string              `json:"observaciones" validate:"omitempty,max=1000"`
	Detalles         []InvoiceItemRequest `json:"detalles" validate:"dive"`
}

// InvoiceItemRequest línea de factura. PrecioUnitario nil toma el precio
// vigente del producto.
type InvoiceItemRequest struct {
	ProductoID     string           `json:"productoId" validate:"required"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precioUnitario"`
	Descuento      decimal.Decimal  `json:"descuento"`
}

// UpdateInvoiceRequest body para PATCH /api/facturas/:id.
// Solo observaciones y fecha de vencimiento son editables; "" borra el valor.
type UpdateInvoiceRequest struct {
	Observaciones    *string `json:"observaciones" validate:"omitempty,max=1000"`
	FechaVencimiento *string `json:"fechaVencimiento" validate:"omitempty,datetime=2006-01-02"`
}

// InvoiceResource proyección de solo lectura de una factura (contrato externo).
// Cliente, Usuario y Detalles solo se incluyen si el llamador los pidió.
type InvoiceResource struct {
	ID               string                  `json:"id"`
	NumeroFactura    string                  `json:"numeroFactura"`
	Serie            string                  `json:"serie"`
	ClienteID        string                  `json:"clienteId"`
	UsuarioID        string                  `json:"usuarioId"`
	FechaEmision     string                  `json:"fechaEmision"`
	FechaVencimiento *string                 `json:"fechaVencimiento"`
	Subtotal         Money                   `json:"subtotal"`
	IGV              Money                   `json:"igv"`
	Descuento        Money                   `json:"descuento"`
	Total            Money                   `json:"total"`
	Estado           string                  `json:"estado"`
	Observaciones    *string                 `json:"observaciones"`
	Cliente          *InvoiceCustomerSummary `json:"cliente,omitempty"`
	Usuario          *InvoiceUserSummary     `json:"usuario,omitempty"`
	Detalles         []InvoiceDetailResource `json:"detalles,omitempty"`
	CreatedAt        string                  `json:"createdAt"`
	UpdatedAt        string                  `json:"updatedAt"`
}

// InvoiceCustomerSummary resumen del cliente dentro de la factura.
type InvoiceCustomerSummary struct {
	ID              string `json:"id"`
	RazonSocial     string `json:"razonSocial"`
	NumeroDocumento string `json:"numeroDocumento"`
}

// InvoiceUserSummary resumen del usuario emisor.
type InvoiceUserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InvoiceDetailResource línea de detalle en la respuesta.
type InvoiceDetailResource struct {
	ProductoID     string `json:"productoId"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario Money  `json:"precioUnitario"`
	Descuento      Money  `json:"descuento"`
	Subtotal       Money  `json:"subtotal"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResource `json:"items"`
	Page  PageResponse      `json:"page"`
}
