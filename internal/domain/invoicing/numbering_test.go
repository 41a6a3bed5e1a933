package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/invoicing"
)

func TestNextInvoiceNumber_PrimeraFacturaDelTipo(t *testing.T) {
	no, err := invoicing.NextInvoiceNumber(nil, entity.InvoiceTypeSale)
	require.NoError(t, err)
	assert.Equal(t, "S-000", no)

	no, err = invoicing.NextInvoiceNumber(nil, entity.InvoiceTypePurchase)
	require.NoError(t, err)
	assert.Equal(t, "P-000", no)
}

func TestNextInvoiceNumber_Incrementa(t *testing.T) {
	no, err := invoicing.NextInvoiceNumber(&entity.Invoice{InvoiceNo: "S-005"}, entity.InvoiceTypeSale)
	require.NoError(t, err)
	assert.Equal(t, "S-006", no)
}

// Una factura borrada lógicamente sigue consumiendo su número.
func TestNextInvoiceNumber_BorradaNoSeReutiliza(t *testing.T) {
	last := &entity.Invoice{InvoiceNo: "S-006", IsDeleted: true}
	no, err := invoicing.NextInvoiceNumber(last, entity.InvoiceTypeSale)
	require.NoError(t, err)
	assert.Equal(t, "S-007", no)
}

func TestNextInvoiceNumber_SuperaTresDigitos(t *testing.T) {
	no, err := invoicing.NextInvoiceNumber(&entity.Invoice{InvoiceNo: "P-999"}, entity.InvoiceTypePurchase)
	require.NoError(t, err)
	assert.Equal(t, "P-1000", no)

	no, err = invoicing.NextInvoiceNumber(&entity.Invoice{InvoiceNo: "P-1000"}, entity.InvoiceTypePurchase)
	require.NoError(t, err)
	assert.Equal(t, "P-1001", no)
}

func TestNextInvoiceNumber_MalFormado(t *testing.T) {
	for _, bad := range []string{"", "S-", "S-abc", "S--01"} {
		_, err := invoicing.NextInvoiceNumber(&entity.Invoice{InvoiceNo: bad}, entity.InvoiceTypeSale)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "número %q", bad)
	}
}

func TestNextInvoiceNumber_TipoInvalido(t *testing.T) {
	_, err := invoicing.NextInvoiceNumber(nil, entity.InvoiceType("REFUND"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
