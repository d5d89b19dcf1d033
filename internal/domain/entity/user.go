package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (emisor de facturas).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, vendedor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
