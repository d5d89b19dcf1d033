package billing

import (
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Include asociaciones que el llamador pidió cargar junto con la factura.
type Include struct {
	Customer bool
	User     bool
	Details  bool
}

// ParseInclude interpreta "cliente,usuario,detalles" (?include= de la API).
// Nombres desconocidos se ignoran.
func ParseInclude(s string) Include {
	var inc Include
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "cliente":
			inc.Customer = true
		case "usuario":
			inc.User = true
		case "detalles":
			inc.Details = true
		}
	}
	return inc
}

// NewInvoiceResource proyecta una factura al contrato JSON externo.
// Las asociaciones nil no se serializan; la función no valida nada.
func NewInvoiceResource(inv *entity.Invoice, details []*entity.InvoiceDetail, customer *entity.Customer, user *entity.User) dto.InvoiceResource {
	res := dto.InvoiceResource{
		ID:               inv.ID,
		NumeroFactura:    inv.Number,
		Serie:            inv.Series,
		ClienteID:        inv.CustomerID,
		UsuarioID:        inv.UserID,
		FechaEmision:     inv.IssueDate.Format(dto.DateLayout),
		FechaVencimiento: dto.FormatDatePtr(inv.DueDate),
		Subtotal:         dto.NewMoney(inv.Subtotal),
		IGV:              dto.NewMoney(inv.IGV),
		Descuento:        dto.NewMoney(inv.Discount),
		Total:            dto.NewMoney(inv.Total),
		Estado:           string(inv.Status),
		Observaciones:    inv.Notes,
		CreatedAt:        dto.FormatTimestamp(inv.CreatedAt),
		UpdatedAt:        dto.FormatTimestamp(inv.UpdatedAt),
	}
	if customer != nil {
		res.Cliente = &dto.InvoiceCustomerSummary{
			ID:              customer.ID,
			RazonSocial:     customer.LegalName,
			NumeroDocumento: customer.DocumentNumber,
		}
	}
	if user != nil {
		res.Usuario = &dto.InvoiceUserSummary{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		}
	}
	if details != nil {
		res.Detalles = make([]dto.InvoiceDetailResource, 0, len(details))
		for _, d := range details {
			res.Detalles = append(res.Detalles, dto.InvoiceDetailResource{
				ProductoID:     d.ProductID,
				Cantidad:       d.Quantity,
				PrecioUnitario: dto.NewMoney(d.UnitPrice),
				Descuento:      dto.NewMoney(d.Discount),
				Subtotal:       dto.NewMoney(d.Subtotal),
			})
		}
	}
	return res
}
