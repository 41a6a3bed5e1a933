package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, company_id, month, year, amount, payment_date, paid, gateway_charge_id, created_at, updated_at`

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta la cuota. La restricción única (company_id, month, year) se traduce a ErrDuplicate.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (company_id, month, year, amount, payment_date, paid, gateway_charge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.CompanyID, string(p.Month), p.Year, p.Amount, p.PaymentDate, p.Paid, p.GatewayChargeID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cuota %s/%d de la empresa %d: %w", p.Month, p.Year, p.CompanyID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene una cuota por ID. nil, nil si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ExistsByCompanyAndPeriod informa si ya hay cuota para (empresa, mes, año).
func (r *PaymentRepo) ExistsByCompanyAndPeriod(ctx context.Context, companyID int64, month entity.Month, year int) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE company_id = $1 AND month = $2 AND year = $3)`,
		companyID, string(month), year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists payment: %w", err)
	}
	return exists, nil
}

// ListByCompany cuotas del año de una empresa, en orden de mes.
func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID int64, year int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE company_id = $1 AND year = $2
		ORDER BY payment_date, id`
	return r.list(ctx, query, companyID, year)
}

// ListAll cuotas del año de todas las empresas.
func (r *PaymentRepo) ListAll(ctx context.Context, year int) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE year = $1
		ORDER BY company_id, payment_date, id`
	return r.list(ctx, query, year)
}

const markPaidSQL = `UPDATE payments SET paid = TRUE, gateway_charge_id = $2, updated_at = now()
	WHERE id = $1 AND (NOT paid OR gateway_charge_id = $2)`

// MarkPaid marca la cuota como cobrada. Repetirlo con el mismo cargo no cambia nada;
// una cuota ya cobrada con otro cargo devuelve domain.ErrConflict y conserva el cargo original.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id int64, gatewayChargeID string) error {
	tag, err := r.q.Exec(ctx, markPaidSQL, id, gatewayChargeID)
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var paid bool
	err = r.q.QueryRow(ctx, `SELECT paid FROM payments WHERE id = $1`, id).Scan(&paid)
	if isNoRows(err) {
		return domain.NewNotFound("pago", id)
	}
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	return fmt.Errorf("pago %d ya cobrado con otro cargo: %w", id, domain.ErrConflict)
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var month string
	err := row.Scan(&p.ID, &p.CompanyID, &month, &p.Year, &p.Amount, &p.PaymentDate, &p.Paid,
		&p.GatewayChargeID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Month = entity.Month(month)
	return &p, nil
}
