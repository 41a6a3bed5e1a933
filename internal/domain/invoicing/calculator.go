// Package invoicing contiene los servicios de dominio puros de facturación:
// cálculo de impuestos y totales, y numeración consecutiva de facturas.
package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// MoneyScale decimales de la moneda: el impuesto por unidad se redondea hacia arriba a esta escala.
const MoneyScale int32 = 2

var hundred = decimal.NewFromInt(100)

// Totals resultado agregado de una factura.
type Totals struct {
	Subtotal decimal.Decimal // Σ precio * cantidad, sin impuesto
	Tax      decimal.Decimal
	Total    decimal.Decimal // Subtotal + Tax
}

// ComputeLineTax calcula el impuesto de una línea:
//
//	ceil(precio * %impuesto / 100) * cantidad
//
// El techo se aplica por unidad a MoneyScale para no cobrar de menos.
func ComputeLineTax(line *entity.InvoiceLine) (decimal.Decimal, error) {
	perUnit := line.Price.
		Mul(decimal.NewFromInt(int64(line.TaxPercent))).
		Div(hundred).
		RoundCeil(MoneyScale)
	tax := perUnit.Mul(decimal.NewFromInt(int64(line.Quantity)))
	if tax.IsNegative() {
		return decimal.Zero, fmt.Errorf("impuesto de línea %s: %w", tax.String(), domain.ErrInvalidAmount)
	}
	return tax, nil
}

// ComputeLinesSubtotal suma precio * cantidad de todas las líneas (sin impuesto).
func ComputeLinesSubtotal(lines []*entity.InvoiceLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// ComputeInvoiceTotals agrega subtotal, impuesto y total. Siempre Total == Subtotal + Tax.
func ComputeInvoiceTotals(lines []*entity.InvoiceLine) (Totals, error) {
	tax := decimal.Zero
	for _, l := range lines {
		t, err := ComputeLineTax(l)
		if err != nil {
			return Totals{}, err
		}
		tax = tax.Add(t)
	}
	if tax.IsNegative() {
		return Totals{}, fmt.Errorf("impuesto total %s: %w", tax.String(), domain.ErrInvalidAmount)
	}
	subtotal := ComputeLinesSubtotal(lines)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}, nil
}

// ValidateLine verifica el contrato de entrada de una línea antes de persistirla.
func ValidateLine(line *entity.InvoiceLine) error {
	switch {
	case line == nil:
		return domain.ErrInvalidInput
	case line.Price.IsNegative():
		return fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	case line.Quantity < 0:
		return fmt.Errorf("cantidad negativa: %w", domain.ErrInvalidInput)
	case line.TaxPercent < 0 || line.TaxPercent > 100:
		return fmt.Errorf("porcentaje de impuesto fuera de rango 0-100: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ApplyTotals recalcula y asigna Price/Tax/Total de la factura desde sus líneas actuales.
func ApplyTotals(inv *entity.Invoice) error {
	t, err := ComputeInvoiceTotals(inv.Lines)
	if err != nil {
		return err
	}
	inv.Price = t.Subtotal
	inv.Tax = t.Tax
	inv.Total = t.Total
	return nil
}
