package payment_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*entity.Payment
	nextID   int64
	// skipExists simula una instancia concurrente: Exists siempre responde false.
	skipExists bool
	// markPaidFailures hace fallar los próximos N MarkPaid.
	markPaidFailures int
	markPaidCalls    int
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: map[int64]*entity.Payment{}}
}

func (r *memPaymentRepo) Create(_ context.Context, p *entity.Payment) error {
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

func (r *memPaymentRepo) GetByID(_ context.Context, id int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memPaymentRepo) ExistsByCompanyAndPeriod(_ context.Context, companyID int64, m entity.Month, year int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipExists {
		return false, nil
	}
	for _, e := range r.payments {
		if e.CompanyID == companyID && e.Month == m && e.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPaymentRepo) list(filter func(*entity.Payment) bool) []*entity.Payment {
	var out []*entity.Payment
	for _, e := range r.payments {
		if filter(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memPaymentRepo) ListByCompany(_ context.Context, companyID int64, year int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(p *entity.Payment) bool { return p.CompanyID == companyID && p.Year == year }), nil
}

func (r *memPaymentRepo) ListAll(_ context.Context, year int) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(p *entity.Payment) bool { return p.Year == year }), nil
}

func (r *memPaymentRepo) MarkPaid(_ context.Context, id int64, chargeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markPaidCalls++
	if r.markPaidFailures > 0 {
		r.markPaidFailures--
		return errors.New("conexión perdida")
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

func (r *memPaymentRepo) countFor(companyID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.payments {
		if p.CompanyID == companyID {
			n++
		}
	}
	return n
}

type memCompanyRepo struct {
	companies []*entity.Company
}

func (r *memCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	c.ID = int64(len(r.companies) + 1)
	r.companies = append(r.companies, c)
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) GetByTitle(_ context.Context, title string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.Title == title {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) ListAll(_ context.Context) ([]*entity.Company, error) {
	return r.companies, nil
}

type stubGateway struct {
	mu     sync.Mutex
	calls  []payment.ChargeSubmission
	result *payment.GatewayCharge
	err    error
}

func (g *stubGateway) SubmitCharge(ctx context.Context, in payment.ChargeSubmission) (*payment.GatewayCharge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, in)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("llamada sin timeout")
	}
	return g.result, g.err
}

// gatewayFunc pasarela definida por una función.
type gatewayFunc func(ctx context.Context, in payment.ChargeSubmission) (*payment.GatewayCharge, error)

func (f gatewayFunc) SubmitCharge(ctx context.Context, in payment.ChargeSubmission) (*payment.GatewayCharge, error) {
	return f(ctx, in)
}

type recordingMetrics struct {
	mu       sync.Mutex
	created  int
	skipped  int
	outcomes []string
}

func (m *recordingMetrics) PaymentsGenerated(created, skipped int) {
	m.mu.Lock()
	m.created += created
	m.skipped += skipped
	m.mu.Unlock()
}

func (m *recordingMetrics) ChargeOutcome(outcome string) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, outcome)
	m.mu.Unlock()
}
