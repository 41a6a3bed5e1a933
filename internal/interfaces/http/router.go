package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/clock"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC   *billing.InvoiceUseCase
	GeneratorUC *payment.GeneratorUseCase
	ChargeUC    *payment.ChargeUseCase
	Clock       clock.Clock
	Log         *logger.Logger
	JWTSecret   string
	// Gatherer expone /metrics; nil deja la ruta sin registrar.
	Gatherer prometheus.Gatherer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	approvers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Invoices: /recent antes que /:type
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Log)
	invoices.Get("/recent", invoiceHandler.Recent)
	invoices.Get("/:type", invoiceHandler.List)
	invoices.Post("/:type", invoiceHandler.Create)
	invoices.Get("/:type/prepare", invoiceHandler.Prepare)
	invoices.Get("/:type/:id", invoiceHandler.GetByID)
	invoices.Put("/:type/:id", invoiceHandler.Update)
	invoices.Delete("/:type/:id", approvers, invoiceHandler.Delete)
	invoices.Post("/:type/:id/approve", approvers, invoiceHandler.Approve)

	// Payments
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.GeneratorUC, deps.ChargeUC, deps.Clock, deps.Log)
	payments.Get("/", paymentHandler.List)
	payments.Post("/generate", RequireRole(), paymentHandler.GenerateNow)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Post("/:id/charge", RequireRole(entity.RoleAdmin), paymentHandler.Charge)
}
