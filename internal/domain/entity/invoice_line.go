package entity

import "github.com/shopspring/decimal"

// InvoiceLine representa una línea de factura. Pertenece a su Invoice y no se edita
// una vez persistida: una actualización reemplaza el conjunto completo de líneas.
type InvoiceLine struct {
	ID          int64
	InvoiceID   int64
	ProductName string
	Price       decimal.Decimal // precio unitario sin impuesto
	Quantity    int             // >= 0
	TaxPercent  int             // 0..100
}
