package dto

import "github.com/shopspring/decimal"

// PaymentResponse cuota mensual en respuestas.
type PaymentResponse struct {
	ID              int64           `json:"id"`
	CompanyID       int64           `json:"company_id"`
	Month           string          `json:"month"`
	Year            int             `json:"year"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	Paid            bool            `json:"paid"`
	GatewayChargeID string          `json:"gateway_charge_id,omitempty"`
}

// PaymentListResponse listado de cuotas.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
}

// ChargeRequest body para POST /api/payments/:id/charge. Amount en unidades mayores.
type ChargeRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	Description  string          `json:"description,omitempty"`
	PaymentToken string          `json:"payment_token"`
}

// ChargeResponse resultado de un cobro aceptado por la pasarela y registrado.
type ChargeResponse struct {
	PaymentID int64  `json:"payment_id"`
	ChargeID  string `json:"charge_id"`
	Status    string `json:"status"`
	Paid      bool   `json:"paid"`
}

// GenerationResponse resumen de una ejecución de la generación mensual.
type GenerationResponse struct {
	Year      int `json:"year"`
	Companies int `json:"companies"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}
