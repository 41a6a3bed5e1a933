package payment

import (
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// ChargeFailedError la pasarela rechazó el cobro o falló la llamada. El pago queda intacto
// y el llamador puede reenviar con otros datos de pago.
// errors.Is(err, domain.ErrChargeFailed) es true.
type ChargeFailedError struct {
	PaymentID int64
	Status    string // estado devuelto por la pasarela; vacío si la llamada falló
	ChargeID  string
	Err       error // error de la pasarela, si lo hubo
}

func (e *ChargeFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cobro del pago %d fallido: %v", e.PaymentID, e.Err)
	}
	return fmt.Sprintf("cobro del pago %d rechazado: estado %q", e.PaymentID, e.Status)
}

func (e *ChargeFailedError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrChargeFailed, e.Err}
	}
	return []error{domain.ErrChargeFailed}
}

// ReconciliationError la pasarela aceptó el cobro pero el pago no pudo marcarse como cobrado.
// ChargeID permite conciliar a mano. errors.Is(err, domain.ErrReconciliation) es true.
type ReconciliationError struct {
	PaymentID int64
	ChargeID  string
	Err       error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("cobro %s aceptado pero el pago %d no se registró: %v", e.ChargeID, e.PaymentID, e.Err)
}

func (e *ReconciliationError) Unwrap() []error {
	return []error{domain.ErrReconciliation, e.Err}
}
