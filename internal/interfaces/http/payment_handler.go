package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/pkg/clock"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// PaymentHandler expone las cuotas mensuales y su cobro (protegido).
type PaymentHandler struct {
	generator *payment.GeneratorUseCase
	charge    *payment.ChargeUseCase
	clock     clock.Clock
	log       *logger.Logger
}

// NewPaymentHandler construye el handler. clk define el año por defecto del listado.
func NewPaymentHandler(generator *payment.GeneratorUseCase, charge *payment.ChargeUseCase, clk clock.Clock, log *logger.Logger) *PaymentHandler {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentHandler{generator: generator, charge: charge, clock: clk, log: log}
}

// List lista las cuotas del año. La empresa dueña de la plataforma ve las de todas.
// @Summary      Listar cuotas
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (default: año en curso)"
// @Success      200  {object}  dto.PaymentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	year := h.clock.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		y := c.QueryInt("year", 0)
		if y < 2000 || y > 9999 {
			return badRequest(c, "VALIDATION", "año inválido")
		}
		year = y
	}
	out, err := h.generator.ListForCurrentTenant(c.Context(), GetCompanyID(c), year)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una cuota.
// @Summary      Obtener cuota
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la cuota"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.generator.FindByID(c.Context(), GetCompanyID(c), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Charge cobra la cuota con el token de la pasarela (solo admin).
// @Summary      Cobrar cuota
// @Description  Una sola llamada a la pasarela. 402 si la rechaza; 500 RECONCILIATION_REQUIRED si
// @Description  el cobro fue aceptado pero la cuota no pudo marcarse como pagada.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la cuota"
// @Param        body  body  dto.ChargeRequest  true  "monto, moneda y token"
// @Success      200  {object}  dto.ChargeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/charge [post]
func (h *PaymentHandler) Charge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.ChargeRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.charge.Charge(c.Context(), GetCompanyID(c), payment.ChargeRequest{
		Amount:       in.Amount,
		Currency:     in.Currency,
		Description:  in.Description,
		PaymentToken: in.PaymentToken,
	}, int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ChargeResponse{
		PaymentID: res.PaymentID,
		ChargeID:  res.ChargeID,
		Status:    res.Status,
		Paid:      true,
	})
}

// GenerateNow dispara la generación anual fuera del cron (solo root).
// @Summary      Generar cuotas del año
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/payments/generate [post]
func (h *PaymentHandler) GenerateNow(c *fiber.Ctx) error {
	res, err := h.generator.GenerateForAllCompanies(c.Context(), h.clock.Now().UTC())
	if err != nil {
		h.log.Warn().Err(err).Int("created", res.Created).Msg("generación manual con errores")
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.GenerationResponse{
		Year:      res.Year,
		Companies: res.Companies,
		Created:   res.Created,
		Skipped:   res.Skipped,
	})
}
