package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// ValidationError entrada malformada o transición de estado ilegal.
// Siempre recuperable; Field/Reason identifican exactamente qué precondición falló.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError construye un ValidationError con campo y motivo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Shortage faltante de un componente concreto (requerido vs disponible).
type Shortage struct {
	ComponentID   string
	ComponentName string
	Required      decimal.Decimal
	Available     decimal.Decimal
}

// Missing devuelve la cantidad faltante (requerido - disponible).
func (s Shortage) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// InsufficiencyError stock insuficiente de uno o más componentes al confirmar o
// completar una orden de fabricación. Recuperable; Shortages viene ordenado por
// nombre de componente para que el mensaje sea determinista.
type InsufficiencyError struct {
	Shortages []Shortage
}

func (e *InsufficiencyError) Error() string {
	msg := "stock insuficiente"
	for _, s := range e.Shortages {
		msg += fmt.Sprintf("; %s: requerido %s, disponible %s (faltan %s)",
			s.ComponentName, s.Required.String(), s.Available.String(), s.Missing().String())
	}
	return msg
}

// ConcurrencyConflictError timeout de lock o deadlock reportado por la base de datos.
// El caller debe reintentar la operación completa.
type ConcurrencyConflictError struct {
	Op  string
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("conflicto de concurrencia en %s: %v (reintentar la operación)", e.Op, e.Err)
}

func (e *ConcurrencyConflictError) Unwrap() error { return e.Err }

// InvariantViolationError un invariante interno se rompió (ej. stock_after mal calculado).
// Fatal: nunca se captura ni se ignora en silencio, indica un bug.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariante violado [%s]: %s", e.Invariant, e.Detail)
}
