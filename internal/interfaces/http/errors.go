package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/payment"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// writeError traduce un error de la capa de aplicación a status + dto.ErrorResponse.
// Los errores no reconocidos se registran y responden 500 sin filtrar el detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var reconciliation *payment.ReconciliationError
	switch {
	// Primero: el error interno de la conciliación (no encontrado, conflicto) no debe ocultar que el cargo existe.
	case errors.As(err, &reconciliation):
		log.Error().Err(err).
			Int64("payment_id", reconciliation.PaymentID).
			Str("charge_id", reconciliation.ChargeID).
			Msg("cobro pendiente de conciliación")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "RECONCILIATION_REQUIRED",
			Message: "cobro aceptado (" + reconciliation.ChargeID + ") pero el pago no quedó registrado",
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrChargeFailed):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "CHARGE_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
