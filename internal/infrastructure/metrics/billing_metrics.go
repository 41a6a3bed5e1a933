// Package metrics expone contadores Prometheus de facturación, cuotas y cobros.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

var (
	_ billing.Metrics = (*BillingMetrics)(nil)
	_ payment.Metrics = (*BillingMetrics)(nil)
)

// BillingMetrics agrupa los colectores. Todos los métodos toleran receptor nil.
type BillingMetrics struct {
	invoicesCreated   *prometheus.CounterVec
	numberConflicts   *prometheus.CounterVec
	paymentsGenerated *prometheus.CounterVec
	chargeOutcomes    *prometheus.CounterVec
	jobRuns           *prometheus.CounterVec
	jobErrors         *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
}

// New crea y registra los colectores. registerer nil usa prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &BillingMetrics{
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_invoices_created_total",
			Help: "Facturas creadas por tipo.",
		}, []string{"type"}),
		numberConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_invoice_number_conflicts_total",
			Help: "Choques con la restricción única de numeración que forzaron un reintento.",
		}, []string{"type"}),
		paymentsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_payments_generated_total",
			Help: "Cuotas mensuales por resultado de la generación (created, skipped).",
		}, []string{"result"}),
		chargeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_charges_total",
			Help: "Cobros por resultado.",
		}, []string{"outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_scheduler_job_runs_total",
			Help: "Ejecuciones de trabajos programados.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_scheduler_job_errors_total",
			Help: "Ejecuciones de trabajos programados que terminaron con error.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facturacion_scheduler_job_duration_seconds",
			Help:    "Duración de los trabajos programados.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"job"}),
	}
	registerer.MustRegister(
		m.invoicesCreated,
		m.numberConflicts,
		m.paymentsGenerated,
		m.chargeOutcomes,
		m.jobRuns,
		m.jobErrors,
		m.jobDuration,
	)
	return m
}

func (m *BillingMetrics) InvoiceCreated(invoiceType entity.InvoiceType) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(string(invoiceType)).Inc()
}

func (m *BillingMetrics) InvoiceNumberConflict(invoiceType entity.InvoiceType) {
	if m == nil {
		return
	}
	m.numberConflicts.WithLabelValues(string(invoiceType)).Inc()
}

func (m *BillingMetrics) PaymentsGenerated(created, skipped int) {
	if m == nil {
		return
	}
	m.paymentsGenerated.WithLabelValues("created").Add(float64(created))
	m.paymentsGenerated.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *BillingMetrics) ChargeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.chargeOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveJob registra una ejecución de trabajo programado.
func (m *BillingMetrics) ObserveJob(job string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if err != nil {
		m.jobErrors.WithLabelValues(job).Inc()
	}
}
