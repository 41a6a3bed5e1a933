package http_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ── facturas ──

type memInvoices struct {
	mu       sync.Mutex
	invoices map[int64]*entity.Invoice
	lines    map[int64][]*entity.InvoiceLine
	nextID   int64
	nextLine int64
}

func newMemInvoices() *memInvoices {
	return &memInvoices{invoices: map[int64]*entity.Invoice{}, lines: map[int64][]*entity.InvoiceLine{}}
}

func (r *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.invoices {
		if e.CompanyID == inv.CompanyID && e.Type == inv.Type && e.InvoiceNo == inv.InvoiceNo {
			return domain.ErrConflict
		}
	}
	r.nextID++
	inv.ID = r.nextID
	c := *inv
	c.Lines = nil
	r.invoices[inv.ID] = &c
	return nil
}

func (r *memInvoices) Update(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	e.Counterparty, e.Description = inv.Counterparty, inv.Description
	e.Status, e.IsDeleted = inv.Status, inv.IsDeleted
	e.Price, e.Tax, e.Total = inv.Price, inv.Tax, inv.Total
	return nil
}

func (r *memInvoices) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *memInvoices) filter(keep func(*entity.Invoice) bool) []*entity.Invoice {
	var out []*entity.Invoice
	for _, e := range r.invoices {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *memInvoices) GetLastByCompanyAndType(_ context.Context, companyID int64, t entity.InvoiceType) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(e *entity.Invoice) bool { return e.CompanyID == companyID && e.Type == t })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *memInvoices) ListByCompanyAndType(_ context.Context, companyID int64, t entity.InvoiceType) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(e *entity.Invoice) bool {
		return e.CompanyID == companyID && e.Type == t && !e.IsDeleted
	}), nil
}

func (r *memInvoices) ListRecentByCompany(_ context.Context, companyID int64, limit int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(e *entity.Invoice) bool { return e.CompanyID == companyID && !e.IsDeleted })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *memInvoices) CreateLine(_ context.Context, l *entity.InvoiceLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLine++
	l.ID = r.nextLine
	c := *l
	r.lines[l.InvoiceID] = append(r.lines[l.InvoiceID], &c)
	return nil
}

func (r *memInvoices) DeleteLinesByInvoiceID(_ context.Context, invoiceID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, invoiceID)
	return nil
}

func (r *memInvoices) GetLinesByInvoiceID(_ context.Context, invoiceID int64) ([]*entity.InvoiceLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.InvoiceLine, 0, len(r.lines[invoiceID]))
	for _, l := range r.lines[invoiceID] {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

type directTx struct{ repo *memInvoices }

func (d directTx) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(d.repo)
}

// ── cuotas ──

type memPayments struct {
	mu       sync.Mutex
	payments map[int64]*entity.Payment
	nextID   int64
	// markPaidErr, si no es nil, lo devuelven todos los MarkPaid.
	markPaidErr error
}

func newMemPayments() *memPayments {
	return &memPayments{payments: map[int64]*entity.Payment{}}
}

func (r *memPayments) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.payments {
		if e.CompanyID == p.CompanyID && e.Month == p.Month && e.Year == p.Year {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	p.ID = r.nextID
	c := *p
	r.payments[p.ID] = &c
	return nil
}

func (r *memPayments) GetByID(_ context.Context, id int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memPayments) ExistsByCompanyAndPeriod(_ context.Context, companyID int64, m entity.Month, year int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.payments {
		if e.CompanyID == companyID && e.Month == m && e.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPayments) list(keep func(*entity.Payment) bool) []*entity.Payment {
	var out []*entity.Payment
	for _, e := range r.payments {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memPayments) ListByCompany(_ context.Context, companyID int64, year int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(p *entity.Payment) bool { return p.CompanyID == companyID && p.Year == year }), nil
}

func (r *memPayments) ListAll(_ context.Context, year int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(p *entity.Payment) bool { return p.Year == year }), nil
}

func (r *memPayments) MarkPaid(_ context.Context, id int64, chargeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markPaidErr != nil {
		return r.markPaidErr
	}
	p, ok := r.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Paid && (p.GatewayChargeID == nil || *p.GatewayChargeID != chargeID) {
		return domain.ErrConflict
	}
	p.Paid = true
	p.GatewayChargeID = &chargeID
	return nil
}

type memCompanies struct{ companies []*entity.Company }

func (r *memCompanies) Create(_ context.Context, c *entity.Company) error {
	c.ID = int64(len(r.companies) + 1)
	r.companies = append(r.companies, c)
	return nil
}

func (r *memCompanies) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) GetByTitle(_ context.Context, title string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.Title == title {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) ListAll(_ context.Context) ([]*entity.Company, error) {
	return r.companies, nil
}

// ── pasarela ──

type stubGateway struct {
	mu     sync.Mutex
	calls  int
	result *payment.GatewayCharge
	err    error
}

func (g *stubGateway) SubmitCharge(_ context.Context, _ payment.ChargeSubmission) (*payment.GatewayCharge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.result, g.err
}
