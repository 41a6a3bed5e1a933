package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
)

func TestBillingMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.InvoiceCreated(entity.InvoiceTypeSale)
	m.InvoiceCreated(entity.InvoiceTypeSale)
	m.InvoiceNumberConflict(entity.InvoiceTypePurchase)
	m.PaymentsGenerated(24, 3)
	m.ChargeOutcome(payment.OutcomeSucceeded)
	m.ChargeOutcome(payment.OutcomeDeclined)
	m.ObserveJob("generate_payments", 2*time.Second, nil)
	m.ObserveJob("generate_payments", time.Second, errors.New("db caída"))

	count, err := testutil.GatherAndCount(reg,
		"facturacion_invoices_created_total",
		"facturacion_invoice_number_conflicts_total",
		"facturacion_payments_generated_total",
		"facturacion_charges_total",
		"facturacion_scheduler_job_runs_total",
		"facturacion_scheduler_job_errors_total",
	)
	assert.NoError(t, err)
	// series: 1 + 1 + 2 + 2 + 1 + 1
	assert.Equal(t, 8, count)
}

func TestBillingMetrics_ReceptorNil(t *testing.T) {
	var m *metrics.BillingMetrics
	assert.NotPanics(t, func() {
		m.InvoiceCreated(entity.InvoiceTypeSale)
		m.InvoiceNumberConflict(entity.InvoiceTypeSale)
		m.PaymentsGenerated(1, 1)
		m.ChargeOutcome(payment.OutcomeSucceeded)
		m.ObserveJob("x", time.Second, nil)
	})
}
