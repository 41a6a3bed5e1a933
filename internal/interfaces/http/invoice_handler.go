package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// InvoiceHandler maneja las peticiones HTTP de facturas de compra y venta (protegido).
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, log *logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceHandler{uc: uc, log: log}
}

// List lista las facturas del tipo para la empresa del token.
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "sale | purchase"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type} [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	t, ok := entity.ParseInvoiceType(c.Params("type"))
	if !ok {
		return badRequest(c, "VALIDATION", "tipo de factura inválido")
	}
	out, err := h.uc.FindAllForCurrentTenant(c.Context(), GetCompanyID(c), t)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create crea una factura numerada en estado AWAITING_APPROVAL.
// @Summary      Crear factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string                    true  "sale | purchase"
// @Param        body  body  dto.CreateInvoiceRequest  true  "contraparte y líneas"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type} [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	t, ok := entity.ParseInvoiceType(c.Params("type"))
	if !ok {
		return badRequest(c, "VALIDATION", "tipo de factura inválido")
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), t, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Prepare devuelve el borrador de una factura nueva con el próximo número tentativo.
// @Summary      Borrador de factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "sale | purchase"
// @Success      200  {object}  dto.InvoiceDraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type}/prepare [get]
func (h *InvoiceHandler) Prepare(c *fiber.Ctx) error {
	t, ok := entity.ParseInvoiceType(c.Params("type"))
	if !ok {
		return badRequest(c, "VALIDATION", "tipo de factura inválido")
	}
	out, err := h.uc.Prepare(c.Context(), GetCompanyID(c), t)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID obtiene la factura con líneas y totales recalculados.
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "sale | purchase"
// @Param        id    path  int     true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type}/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.loadTyped(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update reemplaza contraparte, descripción y líneas. Los campos de identidad del body se ignoran.
// @Summary      Actualizar factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        type  path  string                    true  "sale | purchase"
// @Param        id    path  int                       true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type}/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	current, err := h.loadTyped(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), GetCompanyID(c), current.ID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete borra lógicamente la factura (solo admin/manager).
// @Summary      Borrar factura
// @Tags         invoices
// @Security     Bearer
// @Param        type  path  string  true  "sale | purchase"
// @Param        id    path  int     true  "ID de la factura"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type}/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	if err := h.uc.SoftDelete(c.Context(), GetCompanyID(c), int64(id)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve aprueba la factura (solo admin/manager).
// @Summary      Aprobar factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "sale | purchase"
// @Param        id    path  int     true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{type}/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	out, err := h.uc.Approve(c.Context(), GetCompanyID(c), int64(id))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recent devuelve las tres facturas más recientes del tenant, de cualquier tipo.
// @Summary      Facturas recientes
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices/recent [get]
func (h *InvoiceHandler) Recent(c *fiber.Ctx) error {
	out, err := h.uc.RecentThree(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// loadTyped busca la factura del path; si el tipo no coincide responde como inexistente.
func (h *InvoiceHandler) loadTyped(c *fiber.Ctx) (*dto.InvoiceResponse, error) {
	t, ok := entity.ParseInvoiceType(c.Params("type"))
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	out, err := h.uc.FindByID(c.Context(), GetCompanyID(c), int64(id))
	if err != nil {
		return nil, err
	}
	if out.Type != string(t) {
		return nil, domain.NewNotFound("factura", id)
	}
	return out, nil
}
