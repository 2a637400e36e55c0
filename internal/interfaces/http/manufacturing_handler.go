package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
)

// ManufacturingHandler maneja las órdenes de fabricación (protegido).
type ManufacturingHandler struct {
	uc *manufacturing.MOUseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(uc *manufacturing.MOUseCase) *ManufacturingHandler {
	return &ManufacturingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de fabricación (DRAFT)
// @Description  Copia los ratios de la BOM como requerimientos de componentes
//
//	(snapshot): editar la BOM después no afecta la orden.
//
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMORequest  true  "product_id, quantity_to_produce, priority, fechas"
// @Success      201   {object}  dto.MOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders [post]
func (h *ManufacturingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), manufacturing.CreateMOInput{
		ProductID:          in.ProductID,
		BOMID:              in.BOMID,
		QuantityToProduce:  in.QuantityToProduce,
		Priority:           in.Priority,
		ScheduledStartDate: in.ScheduledStartDate,
		ScheduledEndDate:   in.ScheduledEndDate,
		AssigneeID:         in.AssigneeID,
		Notes:              in.Notes,
		CreatedBy:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMOResponse(out))
}

// GetByID godoc
// @Summary      Obtener orden de fabricación (con órdenes de trabajo)
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.MOResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id} [get]
func (h *ManufacturingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMOResponse(out))
}

// List godoc
// @Summary      Listar órdenes de fabricación
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT, CONFIRMED, IN_PROGRESS, DONE, CANCELED"
// @Success      200  {array}  dto.MOResponse
// @Router       /api/manufacturing-orders [get]
func (h *ManufacturingHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MOResponse, 0, len(list))
	for _, mo := range list {
		out = append(out, dto.ToMOResponse(mo))
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar orden de fabricación
// @Description  Verifica disponibilidad de TODOS los componentes y genera el lote
//
//	de órdenes de trabajo desde las operaciones de la BOM. Con faltantes
//	responde 409 listando cada uno.
//
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.MOResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/confirm [post]
func (h *ManufacturingHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.uc.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMOResponse(out))
}

// Complete godoc
// @Summary      Completar orden de fabricación
// @Description  Protocolo atómico: consume lo pendiente de cada componente, registra
//
//	la producción del terminado y marca la orden DONE, todo en una
//	transacción. Cualquier faltante aborta sin efectos.
//
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/complete [post]
func (h *ManufacturingHandler) Complete(c *fiber.Ctx) error {
	result, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	consumed := make([]dto.LedgerEntryResponse, 0, len(result.Consumed))
	for _, e := range result.Consumed {
		consumed = append(consumed, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(fiber.Map{
		"consumed": consumed,
		"produced": dto.ToLedgerEntryResponse(result.Produced),
	})
}

// Cancel godoc
// @Summary      Cancelar orden de fabricación
// @Description  Solo DRAFT o CONFIRMED con todas sus órdenes de trabajo PENDING.
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      204  "sin contenido"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/cancel [post]
func (h *ManufacturingHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Requirements godoc
// @Summary      Requerimientos de componentes con disponibilidad en vivo
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.RequirementStatus
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/requirements [get]
func (h *ManufacturingHandler) Requirements(c *fiber.Ctx) error {
	list, err := h.uc.ComponentRequirements(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequirementStatus, 0, len(list))
	for _, rs := range list {
		out = append(out, dto.RequirementStatus{
			ComponentID:       rs.Requirement.ComponentID,
			ComponentName:     rs.ComponentName,
			ComponentSKU:      rs.ComponentSKU,
			QuantityPerUnit:   rs.Requirement.QuantityPerUnit,
			RequiredQuantity:  rs.Requirement.RequiredQuantity,
			ConsumedQuantity:  rs.Requirement.ConsumedQuantity,
			RemainingQuantity: rs.Requirement.RemainingQuantity(),
			CurrentStock:      rs.CurrentStock,
			Shortage:          rs.Shortage,
			IsSufficient:      rs.IsSufficient,
		})
	}
	return c.JSON(out)
}

// Progress godoc
// @Summary      Porcentaje de avance de la orden
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]float64
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/progress [get]
func (h *ManufacturingHandler) Progress(c *fiber.Ctx) error {
	progress, err := h.uc.Progress(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"progress_percentage": progress})
}
