package entity

import "time"

// Estados de empresa.
const (
	CompanyStatusActive  = "active"
	CompanyStatusPassive = "passive"
)

// Company representa un tenant del sistema.
// IsPlatformOwner marca a la empresa operadora de la plataforma: no paga suscripción
// y puede consultar datos de todas las empresas.
type Company struct {
	ID              int64
	Title           string
	Phone           string
	Website         string
	Status          string
	IsPlatformOwner bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
