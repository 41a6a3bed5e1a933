package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para las cuotas mensuales.
type PaymentRepository interface {
	// Create inserta el pago. Devuelve domain.ErrDuplicate si ya existe uno para
	// (empresa, mes, año).
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id int64) (*entity.Payment, error)
	ExistsByCompanyAndPeriod(ctx context.Context, companyID int64, month entity.Month, year int) (bool, error)
	ListByCompany(ctx context.Context, companyID int64, year int) ([]*entity.Payment, error)
	ListAll(ctx context.Context, year int) ([]*entity.Payment, error)
	// MarkPaid marca el pago como cobrado y guarda el ID del cargo de la pasarela.
	MarkPaid(ctx context.Context, id int64, gatewayChargeID string) error
}
