package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	Description *string // opcional
	UnitPrice   decimal.Decimal
	Stock       int
	CategoryID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
