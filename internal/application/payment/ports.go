package payment

import "context"

// ChargeStatusSucceeded único estado de la pasarela que marca un pago como cobrado.
const ChargeStatusSucceeded = "succeeded"

// Resultados de cobro para métricas y logs.
const (
	OutcomeSucceeded      = "succeeded"
	OutcomeDeclined       = "declined"
	OutcomeGatewayError   = "gateway_error"
	OutcomeReconciliation = "reconciliation_failed"
)

// ChargeSubmission datos enviados a la pasarela. AmountMinor en unidades menores (centavos).
type ChargeSubmission struct {
	AmountMinor int64
	Currency    string
	Description string
	Token       string
}

// GatewayCharge respuesta de la pasarela.
type GatewayCharge struct {
	ID     string
	Status string
}

// Gateway puerto hacia la pasarela de pagos. Una llamada = un intento de cobro;
// la implementación no debe reintentar.
type Gateway interface {
	SubmitCharge(ctx context.Context, in ChargeSubmission) (*GatewayCharge, error)
}

// Locker serializa los cobros de una misma cuota, también entre instancias.
// La función devuelta libera el lock y es segura de llamar más de una vez.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Metrics contadores de cuotas y cobros. Las implementaciones deben tolerar receptores nil.
type Metrics interface {
	PaymentsGenerated(created, skipped int)
	ChargeOutcome(outcome string)
}

type nopMetrics struct{}

func (nopMetrics) PaymentsGenerated(int, int) {}
func (nopMetrics) ChargeOutcome(string)       {}
