package entity

import "time"

// User cuenta de operador o administrador. La autenticación completa (OTP, perfiles)
// vive fuera de este servicio; aquí solo lo mínimo para emitir tokens y auditar.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string // admin, manager, operator
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
