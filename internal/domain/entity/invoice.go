package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType dirección del negocio de la factura; define el prefijo de numeración.
type InvoiceType string

const (
	InvoiceTypePurchase InvoiceType = "PURCHASE"
	InvoiceTypeSale     InvoiceType = "SALE"
)

var invoiceTypeLabels = map[InvoiceType]string{
	InvoiceTypePurchase: "Purchase",
	InvoiceTypeSale:     "Sale",
}

// Label devuelve la etiqueta visible del tipo ("Purchase", "Sale").
func (t InvoiceType) Label() string {
	return invoiceTypeLabels[t]
}

// Letter es la primera letra de la etiqueta: prefijo del número de factura.
func (t InvoiceType) Letter() string {
	label := t.Label()
	if label == "" {
		return ""
	}
	return label[:1]
}

// Valid informa si el tipo es uno de los soportados.
func (t InvoiceType) Valid() bool {
	_, ok := invoiceTypeLabels[t]
	return ok
}

// ParseInvoiceType acepta "sale", "SALE", "purchase"... (rutas y query params).
func ParseInvoiceType(s string) (InvoiceType, bool) {
	t := InvoiceType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// InvoiceStatus estado de aprobación. Solo transiciona AWAITING_APPROVAL → APPROVED.
type InvoiceStatus string

const (
	InvoiceStatusAwaitingApproval InvoiceStatus = "AWAITING_APPROVAL"
	InvoiceStatusApproved         InvoiceStatus = "APPROVED"
)

// Invoice representa la cabecera de una factura de compra o venta.
// Price, Tax y Total se derivan de Lines; se persisten solo para listados.
type Invoice struct {
	ID           int64
	CompanyID    int64
	InvoiceNo    string // <Letra>-<NNN>, inmutable
	Type         InvoiceType
	Status       InvoiceStatus
	Date         time.Time
	Counterparty string // cliente (venta) o proveedor (compra)
	Description  string
	IsDeleted    bool
	Price        decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Lines        []*InvoiceLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
