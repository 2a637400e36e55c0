package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
	"github.com/ordio-mrp/ordio-api/internal/domain"
)

// respondError traduce la taxonomía de errores de dominio a HTTP. Todos los
// handlers pasan por aquí para que el mismo error produzca siempre el mismo
// código y el mismo status.
//
//	ValidationError / ErrInvalidInput  -> 400
//	ErrNotFound / ErrUserNotFound      -> 404
//	ErrDuplicate                       -> 409
//	InsufficiencyError                 -> 409 (faltantes en el mensaje, deterministas)
//	ConcurrencyConflictError           -> 409 retryable
//	CompletionPendingError             -> 502 (la WO quedó COMPLETED; la MO requiere cierre manual)
//	InvariantViolationError            -> 500 y log en error (es un bug, no se oculta)
func respondError(c *fiber.Ctx, err error) error {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrEmailAlreadyExists) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}

	var insufficiency *domain.InsufficiencyError
	if errors.As(err, &insufficiency) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficiency.Error()})
	}
	var conflict *domain.ConcurrencyConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: conflict.Error(), Retryable: true})
	}
	var pending *manufacturing.CompletionPendingError
	if errors.As(err, &pending) {
		log.Warn().Str("mo_id", pending.MOID).Err(pending.Err).Msg("cierre de MO pendiente tras completar la última WO")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "MO_COMPLETION_PENDING", Message: pending.Error()})
	}
	var invariant *domain.InvariantViolationError
	if errors.As(err, &invariant) {
		log.Error().Str("invariant", invariant.Invariant).Str("detail", invariant.Detail).Msg("invariante violado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INVARIANT_VIOLATION", Message: invariant.Error()})
	}

	log.Error().Err(err).Msg("error no mapeado en handler")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
