package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, invoice_no, invoice_type, status, invoice_date, counterparty,
	description, is_deleted, price, tax, total, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura y asigna su ID.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (company_id, invoice_no, invoice_type, status, invoice_date, counterparty,
			description, is_deleted, price, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		inv.CompanyID, inv.InvoiceNo, string(inv.Type), string(inv.Status), inv.Date, inv.Counterparty,
		inv.Description, inv.IsDeleted, inv.Price, inv.Tax, inv.Total, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura %s ya existe: %w", inv.InvoiceNo, domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update guarda campos descriptivos, estado, borrado lógico y totales.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET counterparty = $2, description = $3, status = $4, is_deleted = $5,
			price = $6, tax = $7, total = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Counterparty, inv.Description, string(inv.Status), inv.IsDeleted,
		inv.Price, inv.Tax, inv.Total, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("factura", inv.ID)
	}
	return nil
}

// GetByID obtiene una factura por ID (sin líneas). nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// Orden numérico del consecutivo: a igual prefijo, más dígitos es mayor.
const invoiceNoDesc = `length(invoice_no) DESC, invoice_no DESC`

var (
	lastInvoiceSQL = `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND invoice_type = $2
		ORDER BY ` + invoiceNoDesc + `
		LIMIT 1`
	listInvoicesSQL = `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND invoice_type = $2 AND NOT is_deleted
		ORDER BY ` + invoiceNoDesc
	recentInvoicesSQL = `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND NOT is_deleted
		ORDER BY invoice_date DESC, id DESC
		LIMIT $2`
)

// GetLastByCompanyAndType incluye borradas. El orden por longitud deja S-1000 después de S-999.
func (r *InvoiceRepo) GetLastByCompanyAndType(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, lastInvoiceSQL, companyID, string(invoiceType)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last invoice: %w", err)
	}
	return inv, nil
}

// ListByCompanyAndType facturas no borradas, número descendente.
func (r *InvoiceRepo) ListByCompanyAndType(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) ([]*entity.Invoice, error) {
	return r.list(ctx, listInvoicesSQL, companyID, string(invoiceType))
}

// ListRecentByCompany facturas no borradas más recientes por fecha.
func (r *InvoiceRepo) ListRecentByCompany(ctx context.Context, companyID int64, limit int) ([]*entity.Invoice, error) {
	return r.list(ctx, recentInvoicesSQL, companyID, limit)
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CreateLine persiste una línea y asigna su ID.
func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (invoice_id, product_name, price, quantity, tax_percent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		line.InvoiceID, line.ProductName, line.Price, line.Quantity, line.TaxPercent,
	).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// DeleteLinesByInvoiceID elimina todas las líneas (el update reemplaza el conjunto completo).
func (r *InvoiceRepo) DeleteLinesByInvoiceID(ctx context.Context, invoiceID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return nil
}

// GetLinesByInvoiceID líneas en orden de inserción.
func (r *InvoiceRepo) GetLinesByInvoiceID(ctx context.Context, invoiceID int64) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_name, price, quantity, tax_percent
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductName, &l.Price, &l.Quantity, &l.TaxPercent); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var invoiceType, status string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.InvoiceNo, &invoiceType, &status, &inv.Date, &inv.Counterparty,
		&inv.Description, &inv.IsDeleted, &inv.Price, &inv.Tax, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Type = entity.InvoiceType(invoiceType)
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}
