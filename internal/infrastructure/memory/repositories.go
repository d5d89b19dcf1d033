package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct {
	s    *Store
	inTx bool
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.s.lock(r.inTx)()
	for _, other := range r.s.customers {
		if other.DocumentNumber == c.DocumentNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByDocumentNumber(_ context.Context, number string) (*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	for _, c := range r.s.customers {
		if c.DocumentNumber == number {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	defer r.s.lock(r.inTx)()
	q := strings.ToLower(search)
	out := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if q != "" && !strings.Contains(strings.ToLower(c.LegalName), q) && !strings.Contains(c.DocumentNumber, q) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegalName < out[j].LegalName })
	return paginate(out, limit, offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.customers {
		if other.ID != c.ID && other.DocumentNumber == c.DocumentNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	// misma regla que la FK invoices.customer_id, bajo el mismo lock
	for _, inv := range r.s.invoices {
		if inv.CustomerID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.customers, id)
	return nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	for _, other := range r.s.products {
		if other.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, productID string, delta int) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[productID]
	if !ok {
		return &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	r.s.products[productID] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, categoryID string, limit, offset int) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *ProductRepo) ExistsByCategory(_ context.Context, categoryID string) (bool, error) {
	defer r.s.lock(r.inTx)()
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, details := range r.s.details {
		for _, d := range details {
			if d.ProductID == id {
				return domain.ErrInUse
			}
		}
	}
	delete(r.s.products, id)
	r.s.movements = slices.DeleteFunc(r.s.movements, func(m entity.StockMovement) bool {
		return m.ProductID == id
	})
	return nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.s.lock(false)()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	defer r.s.lock(false)()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.s.lock(false)()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	defer r.s.lock(false)()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(false)()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock(false)()
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock(false)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock(false)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lock(false)()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	defer r.s.lock(false)()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ── Facturas ──────────────────────────────────────────────────────────────────

// InvoiceRepo implementa repository.InvoiceRepository.
type InvoiceRepo struct {
	s    *Store
	inTx bool
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice, details []*entity.InvoiceDetail) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.invoices {
		if other.Series == inv.Series && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	rows := make([]entity.InvoiceDetail, 0, len(details))
	for _, d := range details {
		rows = append(rows, *d)
	}
	r.s.invoices[inv.ID] = *inv
	r.s.details[inv.ID] = rows
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	defer r.s.lock(r.inTx)()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// GetByIDForUpdate dentro de RunBilling el store ya está bloqueado.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetDetailsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	defer r.s.lock(r.inTx)()
	rows := r.s.details[invoiceID]
	out := make([]*entity.InvoiceDetail, 0, len(rows))
	for i := range rows {
		d := rows[i]
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id string, from, to billing.Status, version int, updatedAt time.Time) error {
	defer r.s.lock(r.inTx)()
	inv, ok := r.s.invoices[id]
	if !ok {
		return &domain.NotFoundError{Resource: "factura", ID: id}
	}
	if inv.Status != from || inv.Version != version {
		return domain.ErrConcurrencyConflict
	}
	inv.Status = to
	inv.Version = version + 1
	inv.UpdatedAt = updatedAt
	r.s.invoices[id] = inv
	return nil
}

func (r *InvoiceRepo) UpdateNotes(_ context.Context, in *entity.Invoice) error {
	defer r.s.lock(r.inTx)()
	inv, ok := r.s.invoices[in.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "factura", ID: in.ID}
	}
	inv.Notes = in.Notes
	inv.DueDate = in.DueDate
	inv.UpdatedAt = in.UpdatedAt
	r.s.invoices[in.ID] = inv
	return nil
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	defer r.s.lock(r.inTx)()
	out := r.filter(f)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].FullNumber() > out[j].FullNumber()
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *InvoiceRepo) Count(_ context.Context, f repository.InvoiceFilter) (int, error) {
	defer r.s.lock(r.inTx)()
	return len(r.filter(f)), nil
}

func (r *InvoiceRepo) filter(f repository.InvoiceFilter) []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if f.Series != "" && inv.Series != f.Series {
			continue
		}
		if f.From != nil && inv.IssueDate.Before(*f.From) {
			continue
		}
		if f.To != nil && inv.IssueDate.After(*f.To) {
			continue
		}
		out = append(out, &inv)
	}
	return out
}

func (r *InvoiceRepo) NextNumber(_ context.Context, series string) (int64, error) {
	defer r.s.lock(r.inTx)()
	r.s.counters[series]++
	return r.s.counters[series], nil
}

func (r *InvoiceRepo) ExistsByCustomer(_ context.Context, customerID string) (bool, error) {
	defer r.s.lock(r.inTx)()
	for _, inv := range r.s.invoices {
		if inv.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InvoiceRepo) ExistsByProduct(_ context.Context, productID string) (bool, error) {
	defer r.s.lock(r.inTx)()
	for _, rows := range r.s.details {
		for _, d := range rows {
			if d.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── Kardex ────────────────────────────────────────────────────────────────────

// StockMovementRepo implementa repository.StockMovementRepository.
type StockMovementRepo struct {
	s    *Store
	inTx bool
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.s.lock(r.inTx)()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.inTx)()
	var out []*entity.StockMovement
	// recorrido inverso: el slice está en orden de inserción
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if (from != nil && m.CreatedAt.Before(*from)) || (to != nil && m.CreatedAt.After(*to)) {
			continue
		}
		out = append(out, &m)
	}
	return paginate(out, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
