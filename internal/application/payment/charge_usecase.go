package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

// ChargeRequest datos de un cobro. Amount en unidades mayores; no se persiste.
type ChargeRequest struct {
	Amount       decimal.Decimal
	Currency     string
	Description  string
	PaymentToken string
}

// ChargeResult cobro aceptado por la pasarela y registrado en el pago.
type ChargeResult struct {
	PaymentID int64
	ChargeID  string
	Status    string
}

// ChargeConfig parámetros del cobro.
type ChargeConfig struct {
	Currency      string        // moneda por defecto si el request no trae una
	Timeout       time.Duration // límite de la llamada a la pasarela
	WriteAttempts int           // intentos de marcar el pago tras un cobro aceptado
	WriteBackoff  time.Duration // espera entre intentos de escritura
}

func (c ChargeConfig) withDefaults() ChargeConfig {
	if c.Currency == "" {
		c.Currency = "usd"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.WriteAttempts <= 0 {
		c.WriteAttempts = 3
	}
	return c
}

// ChargeUseCase envía el cobro de una cuota a la pasarela y concilia el resultado.
type ChargeUseCase struct {
	payments repository.PaymentRepository
	gateway  Gateway
	locker   Locker
	cfg      ChargeConfig
	log      *logger.Logger
	metrics  Metrics
}

// NewChargeUseCase construye el caso de uso. locker es obligatorio; log y metrics pueden ser nil.
func NewChargeUseCase(payments repository.PaymentRepository, gateway Gateway, locker Locker, cfg ChargeConfig, log *logger.Logger, metrics Metrics) *ChargeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ChargeUseCase{
		payments: payments,
		gateway:  gateway,
		locker:   locker,
		cfg:      cfg.withDefaults(),
		log:      log.Named("charges"),
		metrics:  metrics,
	}
}

// ToMinorUnits convierte unidades mayores a menores truncando: 12.349 -> 1234.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).Truncate(0).IntPart()
}

// Charge cobra la cuota paymentID de la empresa.
//
// Lectura, llamada a la pasarela y escritura ocurren bajo el lock de la cuota: dos cobros
// concurrentes de la misma cuota no llegan ambos a la pasarela. La pasarela se llama una sola vez. Un rechazo o error de la pasarela devuelve
// *ChargeFailedError y deja el pago sin cambios. Si la pasarela acepta pero el pago no
// puede marcarse tras WriteAttempts intentos, devuelve *ReconciliationError con el ID del cargo.
func (uc *ChargeUseCase) Charge(ctx context.Context, companyID int64, req ChargeRequest, paymentID int64) (*ChargeResult, error) {
	if strings.TrimSpace(req.PaymentToken) == "" {
		return nil, fmt.Errorf("token de pago vacío: %w", domain.ErrInvalidInput)
	}
	minor := ToMinorUnits(req.Amount)
	if minor <= 0 {
		return nil, fmt.Errorf("monto %s: %w", req.Amount.String(), domain.ErrInvalidAmount)
	}

	unlock, err := uc.locker.Lock(ctx, chargeLockKey(paymentID))
	if err != nil {
		return nil, fmt.Errorf("cobro del pago %d: %w", paymentID, err)
	}
	defer unlock()

	p, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.NewNotFound(paymentResource, paymentID)
	}
	if p.Paid {
		return nil, fmt.Errorf("pago %d ya cobrado: %w", paymentID, domain.ErrConflict)
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = uc.cfg.Currency
	}

	gwCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	charge, err := uc.gateway.SubmitCharge(gwCtx, ChargeSubmission{
		AmountMinor: minor,
		Currency:    currency,
		Description: req.Description,
		Token:       req.PaymentToken,
	})
	cancel()
	if err != nil {
		uc.metrics.ChargeOutcome(OutcomeGatewayError)
		uc.log.Warn().Err(err).Int64("payment_id", paymentID).Int64("amount_minor", minor).Msg("error de la pasarela")
		return nil, &ChargeFailedError{PaymentID: paymentID, Err: err}
	}
	if charge == nil || charge.Status != ChargeStatusSucceeded {
		fe := &ChargeFailedError{PaymentID: paymentID}
		if charge != nil {
			fe.Status, fe.ChargeID = charge.Status, charge.ID
		}
		uc.metrics.ChargeOutcome(OutcomeDeclined)
		uc.log.Warn().Int64("payment_id", paymentID).Str("status", fe.Status).Str("charge_id", fe.ChargeID).Msg("cobro rechazado")
		return nil, fe
	}

	// El cargo ya existe en la pasarela: la escritura local no depende de que el cliente siga conectado.
	if err := uc.markPaid(context.WithoutCancel(ctx), paymentID, charge.ID); err != nil {
		uc.metrics.ChargeOutcome(OutcomeReconciliation)
		uc.log.Error().Err(err).Int64("payment_id", paymentID).Str("charge_id", charge.ID).Msg("cobro aceptado sin registrar; conciliar manualmente")
		return nil, &ReconciliationError{PaymentID: paymentID, ChargeID: charge.ID, Err: err}
	}

	uc.metrics.ChargeOutcome(OutcomeSucceeded)
	uc.log.Info().Int64("payment_id", paymentID).Str("charge_id", charge.ID).Int64("amount_minor", minor).Str("currency", currency).Msg("pago cobrado")
	return &ChargeResult{PaymentID: paymentID, ChargeID: charge.ID, Status: charge.Status}, nil
}

func (uc *ChargeUseCase) markPaid(ctx context.Context, paymentID int64, chargeID string) error {
	var err error
	for attempt := 1; attempt <= uc.cfg.WriteAttempts; attempt++ {
		if err = uc.payments.MarkPaid(ctx, paymentID, chargeID); err == nil {
			return nil
		}
		uc.log.Warn().Err(err).Int64("payment_id", paymentID).Int("attempt", attempt).Msg("no se pudo marcar el pago como cobrado")
		// Cuota inexistente o ya cobrada con otro cargo: reintentar no cambia nada.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt < uc.cfg.WriteAttempts && uc.cfg.WriteBackoff > 0 {
			time.Sleep(uc.cfg.WriteBackoff * time.Duration(attempt))
		}
	}
	return err
}

func chargeLockKey(paymentID int64) string {
	return "payment:" + strconv.FormatInt(paymentID, 10)
}
