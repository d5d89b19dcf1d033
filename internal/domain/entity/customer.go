package entity

import "time"

// Tipos de documento de identidad (catálogo SUNAT 06).
const (
	DocTypeDNI = "DNI"
	DocTypeRUC = "RUC"
	DocTypeCE  = "CE"
)

// Customer representa un cliente (adquiriente) de las facturas.
type Customer struct {
	ID             string
	DocumentType   string // DNI, RUC, CE
	DocumentNumber string // único en el sistema
	LegalName      string // razón social o nombre completo
	Address        string
	Phone          string
	Email          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
