package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Month mes de facturación de la suscripción.
type Month string

const (
	January   Month = "JANUARY"
	February  Month = "FEBRUARY"
	March     Month = "MARCH"
	April     Month = "APRIL"
	May       Month = "MAY"
	June      Month = "JUNE"
	July      Month = "JULY"
	August    Month = "AUGUST"
	September Month = "SEPTEMBER"
	October   Month = "OCTOBER"
	November  Month = "NOVEMBER"
	December  Month = "DECEMBER"
)

// Months en orden calendario.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

var monthNumbers = map[Month]time.Month{
	January:   time.January,
	February:  time.February,
	March:     time.March,
	April:     time.April,
	May:       time.May,
	June:      time.June,
	July:      time.July,
	August:    time.August,
	September: time.September,
	October:   time.October,
	November:  time.November,
	December:  time.December,
}

// MonthNumber devuelve el mes calendario; ok=false si m no es un mes válido.
func MonthNumber(m Month) (time.Month, bool) {
	n, ok := monthNumbers[m]
	return n, ok
}

// FirstDayOf devuelve el primer día (UTC) del mes m del año year.
func FirstDayOf(year int, m Month) (time.Time, bool) {
	n, ok := MonthNumber(m)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, n, 1, 0, 0, 0, 0, time.UTC), true
}

// Payment cuota mensual de suscripción de una empresa.
// Única por (CompanyID, Month, Year). Paid solo pasa de false a true tras un cobro exitoso.
type Payment struct {
	ID              int64
	CompanyID       int64
	Month           Month
	Year            int
	Amount          decimal.Decimal
	PaymentDate     time.Time
	Paid            bool
	GatewayChargeID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
