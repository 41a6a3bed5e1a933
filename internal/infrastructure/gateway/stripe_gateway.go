// Package gateway adapta la pasarela de pagos Stripe al puerto payment.Gateway.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/charge"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
)

var _ payment.Gateway = (*StripeGateway)(nil)

// StripeConfig parámetros del cliente Stripe.
type StripeConfig struct {
	SecretKey string
	// URL base de la API; vacío usa la de producción. Los tests apuntan a un servidor local.
	URL     string
	Timeout time.Duration
}

// StripeGateway crea cargos con la API de Charges de Stripe.
// El backend se configura sin reintentos de red: un cargo nunca se reenvía.
type StripeGateway struct {
	client charge.Client
}

// NewStripeGateway construye el adaptador. Error si falta la clave secreta.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: STRIPE_SECRET_KEY vacío")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.URL != "" {
		backendCfg.URL = stripe.String(cfg.URL)
	}
	return &StripeGateway{
		client: charge.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
	}, nil
}

// SubmitCharge crea el cargo. Cada llamada lleva una clave de idempotencia nueva.
func (g *StripeGateway) SubmitCharge(ctx context.Context, in payment.ChargeSubmission) (*payment.GatewayCharge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(in.AmountMinor),
		Currency:    stripe.String(in.Currency),
		Description: stripe.String(in.Description),
	}
	if err := params.SetSource(in.Token); err != nil {
		return nil, fmt.Errorf("stripe: token de pago: %w", err)
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	ch, err := g.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("stripe: %s (%s): %w", stripeErr.Code, stripeErr.Msg, err)
		}
		return nil, fmt.Errorf("stripe: crear cargo: %w", err)
	}
	return &payment.GatewayCharge{ID: ch.ID, Status: string(ch.Status)}, nil
}
