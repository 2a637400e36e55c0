package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
)

// WorkOrderHandler maneja la ejecución de órdenes de trabajo en taller (protegido).
type WorkOrderHandler struct {
	uc *manufacturing.WOUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *manufacturing.WOUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de trabajo"
// @Success      200  {object}  dto.WOResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	wo, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// ListByMO godoc
// @Summary      Órdenes de trabajo de una orden de fabricación
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de fabricación"
// @Success      200  {array}  dto.WOResponse
// @Router       /api/manufacturing-orders/{id}/work-orders [get]
func (h *WorkOrderHandler) ListByMO(c *fiber.Ctx) error {
	list, err := h.uc.ListByMO(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WOResponse, 0, len(list))
	for _, wo := range list {
		out = append(out, dto.ToWOResponse(wo))
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar orden de trabajo (PENDING -> IN_PROGRESS)
// @Description  La primera orden de trabajo que arranca pasa la MO a IN_PROGRESS.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.WOTransitionRequest  false  "operator_id"
// @Success      200   {object}  dto.WOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/start [post]
func (h *WorkOrderHandler) Start(c *fiber.Ctx) error {
	in := parseTransition(c)
	operatorID := in.OperatorID
	if operatorID == "" {
		operatorID = GetUserID(c)
	}
	wo, err := h.uc.Start(c.Context(), c.Params("id"), operatorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// Pause godoc
// @Summary      Pausar orden de trabajo (IN_PROGRESS -> PAUSED)
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.WOTransitionRequest  false  "notes"
// @Success      200   {object}  dto.WOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/pause [post]
func (h *WorkOrderHandler) Pause(c *fiber.Ctx) error {
	in := parseTransition(c)
	wo, err := h.uc.Pause(c.Context(), c.Params("id"), in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// Resume godoc
// @Summary      Reanudar orden de trabajo (PAUSED -> IN_PROGRESS)
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.WOTransitionRequest  false  "notes"
// @Success      200   {object}  dto.WOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/resume [post]
func (h *WorkOrderHandler) Resume(c *fiber.Ctx) error {
	in := parseTransition(c)
	wo, err := h.uc.Resume(c.Context(), c.Params("id"), in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// Complete godoc
// @Summary      Completar orden de trabajo
// @Description  Si era la última pendiente de la MO dispara el cierre de la orden de
//
//	fabricación. Si ese cierre falla (ej. faltante detectado tarde), la
//	orden de trabajo queda COMPLETED igualmente y la respuesta lo indica
//	con mo_completion_error: la MO requiere resolución manual.
//
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.WOTransitionRequest  false  "notes, actual_duration"
// @Success      200   {object}  dto.WOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	in := parseTransition(c)
	wo, err := h.uc.Complete(c.Context(), c.Params("id"), in.Notes, in.ActualDuration, GetUserID(c))
	if err != nil {
		var pending *manufacturing.CompletionPendingError
		if errors.As(err, &pending) && wo != nil {
			// El registro de taller se conservó; solo el cierre de la MO falló.
			return c.JSON(fiber.Map{
				"work_order":          dto.ToWOResponse(wo),
				"mo_completion_error": pending.Err.Error(),
			})
		}
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// Cancel godoc
// @Summary      Cancelar orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.WOTransitionRequest  false  "notes"
// @Success      200   {object}  dto.WOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) Cancel(c *fiber.Ctx) error {
	in := parseTransition(c)
	wo, err := h.uc.Cancel(c.Context(), c.Params("id"), in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToWOResponse(wo))
}

// Events godoc
// @Summary      Traza de auditoría de la orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de trabajo"
// @Success      200  {array}  dto.WOEventResponse
// @Router       /api/work-orders/{id}/events [get]
func (h *WorkOrderHandler) Events(c *fiber.Ctx) error {
	events, err := h.uc.Events(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WOEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.WOEventResponse{
			ID:         ev.ID,
			EventType:  ev.EventType,
			Notes:      ev.Notes,
			ActorID:    ev.ActorID,
			OccurredAt: ev.OccurredAt,
		})
	}
	return c.JSON(out)
}

// parseTransition lee el cuerpo opcional de una transición; cuerpo vacío es válido.
func parseTransition(c *fiber.Ctx) dto.WOTransitionRequest {
	var in dto.WOTransitionRequest
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&in)
	}
	return in
}
