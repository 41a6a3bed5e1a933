package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Los métodos Get* devuelven nil, nil si no hay fila.
type InvoiceRepository interface {
	// Create inserta la cabecera y asigna invoice.ID. Devuelve domain.ErrConflict si el
	// número ya existe para (empresa, tipo).
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update guarda campos descriptivos, totales, estado y borrado lógico.
	// Nunca modifica company_id, invoice_type ni invoice_no.
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)

	// GetLastByCompanyAndType devuelve la última factura numerada de la empresa para el tipo,
	// incluidas las borradas lógicamente (no se reutilizan números).
	GetLastByCompanyAndType(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) (*entity.Invoice, error)
	// ListByCompanyAndType lista facturas no borradas, número descendente.
	ListByCompanyAndType(ctx context.Context, companyID int64, invoiceType entity.InvoiceType) ([]*entity.Invoice, error)
	// ListRecentByCompany lista las `limit` facturas no borradas más recientes por fecha.
	ListRecentByCompany(ctx context.Context, companyID int64, limit int) ([]*entity.Invoice, error)

	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	DeleteLinesByInvoiceID(ctx context.Context, invoiceID int64) error
	GetLinesByInvoiceID(ctx context.Context, invoiceID int64) ([]*entity.InvoiceLine, error)
}
