package entity

// Roles válidos en el claim "role" del token.
const (
	RoleRoot     = "root" // usuario de la empresa dueña de la plataforma
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)
