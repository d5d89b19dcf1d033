// Package memory implementa los repositorios sobre mapas en memoria protegidos
// por un mutex. Se usa en tests y con DB_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu         sync.Mutex
	customers  map[string]entity.Customer
	products   map[string]entity.Product
	categories map[string]entity.Category
	users      map[string]entity.User
	invoices   map[string]entity.Invoice
	details    map[string][]entity.InvoiceDetail // por invoiceID
	counters   map[string]int64                  // correlativo por serie
	movements  []entity.StockMovement
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		customers:  map[string]entity.Customer{},
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		users:      map[string]entity.User{},
		invoices:   map[string]entity.Invoice{},
		details:    map[string][]entity.InvoiceDetail{},
		counters:   map[string]int64{},
	}
}

// Customers repositorio de clientes.
func (s *Store) Customers() repository.CustomerRepository { return &CustomerRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &ProductRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &UserRepo{s: s} }

// Invoices repositorio de facturas.
func (s *Store) Invoices() repository.InvoiceRepository { return &InvoiceRepo{s: s} }

// Movements kardex de productos.
func (s *Store) Movements() repository.StockMovementRepository { return &StockMovementRepo{s: s} }

// Dashboard consultas del dashboard.
func (s *Store) Dashboard() repository.DashboardRepository { return &DashboardRepo{s: s} }

// RunBilling ejecuta fn con el store bloqueado. Si fn retorna error, el estado
// vuelve a la foto tomada antes de empezar.
func (s *Store) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(
		&InvoiceRepo{s: s, inTx: true},
		&ProductRepo{s: s, inTx: true},
		&CustomerRepo{s: s, inTx: true},
		&StockMovementRepo{s: s, inTx: true},
	)
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lock toma el mutex salvo que la operación ya corra dentro de RunBilling.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	products  map[string]entity.Product
	invoices  map[string]entity.Invoice
	details   map[string][]entity.InvoiceDetail
	counters  map[string]int64
	movements []entity.StockMovement
}

// snapshot copia lo que una transacción de facturación puede modificar.
func (s *Store) snapshot() snapshot {
	return snapshot{
		products:  maps.Clone(s.products),
		invoices:  maps.Clone(s.invoices),
		details:   maps.Clone(s.details),
		counters:  maps.Clone(s.counters),
		movements: slices.Clone(s.movements),
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.invoices = snap.invoices
	s.details = snap.details
	s.counters = snap.counters
	s.movements = snap.movements
}
