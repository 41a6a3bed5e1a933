package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con el repositorio de facturas
// ligado a ella. Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error
}

// NumberLocker serializa la asignación de números por clave (empresa, tipo).
// La función devuelta libera el lock y es segura de llamar más de una vez.
type NumberLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Metrics contadores de facturación. Las implementaciones deben tolerar receptores nil.
type Metrics interface {
	InvoiceCreated(invoiceType entity.InvoiceType)
	InvoiceNumberConflict(invoiceType entity.InvoiceType)
}

type nopMetrics struct{}

func (nopMetrics) InvoiceCreated(entity.InvoiceType)        {}
func (nopMetrics) InvoiceNumberConflict(entity.InvoiceType) {}
