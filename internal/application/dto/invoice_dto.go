package dto

import "github.com/shopspring/decimal"

// DateLayout formato de fechas en requests y responses.
const DateLayout = "2006-01-02"

// InvoiceLineRequest línea de factura (producto, precio unitario, cantidad, % impuesto).
type InvoiceLineRequest struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TaxPercent  int             `json:"tax_percent"`
}

// CreateInvoiceRequest body para POST /api/invoices/:type.
// Empresa, tipo, número, fecha y estado los asigna el servidor.
type CreateInvoiceRequest struct {
	Counterparty string               `json:"counterparty"`
	Description  string               `json:"description,omitempty"`
	Lines        []InvoiceLineRequest `json:"lines"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:type/:id.
// Los campos de identidad se aceptan por compatibilidad con el cliente pero se ignoran:
// siempre prevalecen los valores guardados.
type UpdateInvoiceRequest struct {
	ID           int64                `json:"id,omitempty"`
	InvoiceNo    string               `json:"invoice_no,omitempty"`
	Type         string               `json:"type,omitempty"`
	Status       string               `json:"status,omitempty"`
	CompanyID    int64                `json:"company_id,omitempty"`
	Date         string               `json:"date,omitempty"`
	Counterparty string               `json:"counterparty"`
	Description  string               `json:"description,omitempty"`
	Lines        []InvoiceLineRequest `json:"lines"`
}

// InvoiceLineResponse línea en la respuesta, con su impuesto calculado.
type InvoiceLineResponse struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TaxPercent  int             `json:"tax_percent"`
	Tax         decimal.Decimal `json:"tax"`
}

// InvoiceResponse factura con líneas y totales recalculados.
type InvoiceResponse struct {
	ID           int64                 `json:"id"`
	CompanyID    int64                 `json:"company_id"`
	InvoiceNo    string                `json:"invoice_no"`
	Type         string                `json:"type"`
	Status       string                `json:"status"`
	Date         string                `json:"date"`
	Counterparty string                `json:"counterparty"`
	Description  string                `json:"description,omitempty"`
	Price        decimal.Decimal       `json:"price"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// InvoiceListResponse listado de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
}

// InvoiceDraftResponse borrador para el formulario de nueva factura (no se persiste).
type InvoiceDraftResponse struct {
	InvoiceNo string `json:"invoice_no"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Date      string `json:"date"`
}
