package gateway

import (
	"context"
	"errors"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
)

// ErrNotConfigured lo devuelve la pasarela cuando no hay STRIPE_SECRET_KEY.
var ErrNotConfigured = errors.New("pasarela de pagos no configurada")

// Unavailable rechaza todo cobro. Permite levantar la API sin credenciales de Stripe.
type Unavailable struct{}

var _ payment.Gateway = Unavailable{}

func (Unavailable) SubmitCharge(context.Context, payment.ChargeSubmission) (*payment.GatewayCharge, error) {
	return nil, ErrNotConfigured
}
