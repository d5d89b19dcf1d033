package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DashboardRepo implementa repository.DashboardRepository.
type DashboardRepo struct {
	s *Store
}

func (r *DashboardRepo) CountCustomers(_ context.Context) (int, error) {
	defer r.s.lock(false)()
	return len(r.s.customers), nil
}

func (r *DashboardRepo) CountProducts(_ context.Context) (int, error) {
	defer r.s.lock(false)()
	return len(r.s.products), nil
}

func (r *DashboardRepo) CountInvoicesByStatus(_ context.Context) (map[billing.Status]int, error) {
	defer r.s.lock(false)()
	out := map[billing.Status]int{}
	for _, inv := range r.s.invoices {
		out[inv.Status]++
	}
	return out, nil
}

func (r *DashboardRepo) GetSalesTotal(_ context.Context, start, end time.Time) (decimal.Decimal, error) {
	defer r.s.lock(false)()
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.Status == billing.StatusVoided || inv.IssueDate.Before(start) || inv.IssueDate.After(end) {
			continue
		}
		total = total.Add(inv.Total)
	}
	return total, nil
}

func (r *DashboardRepo) GetPendingTotal(_ context.Context) (decimal.Decimal, error) {
	defer r.s.lock(false)()
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.Status == billing.StatusIssued {
			total = total.Add(inv.Total)
		}
	}
	return total, nil
}

func (r *DashboardRepo) GetTopProducts(_ context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	defer r.s.lock(false)()
	acc := map[string]*repository.TopProductResult{}
	for id, inv := range r.s.invoices {
		if inv.Status == billing.StatusVoided || inv.IssueDate.Before(start) || inv.IssueDate.After(end) {
			continue
		}
		for _, d := range r.s.details[id] {
			row, ok := acc[d.ProductID]
			if !ok {
				p := r.s.products[d.ProductID]
				row = &repository.TopProductResult{ProductID: d.ProductID, Code: p.Code, Name: p.Name}
				acc[d.ProductID] = row
			}
			row.Quantity += d.Quantity
			row.Revenue = row.Revenue.Add(d.Subtotal)
		}
	}
	out := make([]repository.TopProductResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *DashboardRepo) GetLowStockProducts(_ context.Context, threshold int) ([]repository.LowStockResult, error) {
	defer r.s.lock(false)()
	var out []repository.LowStockResult
	for _, p := range r.s.products {
		if p.Stock <= threshold {
			out = append(out, repository.LowStockResult{ProductID: p.ID, Code: p.Code, Name: p.Name, Stock: p.Stock})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
