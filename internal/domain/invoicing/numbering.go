package invoicing

import (
	"fmt"
	"strconv"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// prefixLen longitud del prefijo "<Letra>-".
const prefixLen = 2

// NextInvoiceNumber deriva el siguiente número para (empresa, tipo) a partir de la
// última factura numerada, borrada o no. Sin factura previa devuelve "<Letra>-000".
// Los números >= 1000 crecen en dígitos sin error.
func NextInvoiceNumber(last *entity.Invoice, invoiceType entity.InvoiceType) (string, error) {
	if !invoiceType.Valid() {
		return "", fmt.Errorf("tipo de factura %q: %w", invoiceType, domain.ErrInvalidInput)
	}
	letter := invoiceType.Letter()
	if last == nil {
		return FormatInvoiceNumber(letter, 0), nil
	}
	if len(last.InvoiceNo) <= prefixLen {
		return "", fmt.Errorf("número de factura %q mal formado: %w", last.InvoiceNo, domain.ErrInvalidInput)
	}
	n, err := strconv.Atoi(last.InvoiceNo[prefixLen:])
	if err != nil || n < 0 {
		return "", fmt.Errorf("número de factura %q mal formado: %w", last.InvoiceNo, domain.ErrInvalidInput)
	}
	return FormatInvoiceNumber(letter, n+1), nil
}

// FormatInvoiceNumber formatea "<Letra>-NNN" con relleno de ceros a 3 dígitos.
func FormatInvoiceNumber(letter string, n int) string {
	return fmt.Sprintf("%s-%03d", letter, n)
}
