package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
)

// AdjustmentHandler maneja los ajustes de stock (protegido).
type AdjustmentHandler struct {
	uc *inventory.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Create godoc
// @Summary      Proponer ajuste de stock
// @Description  El ajuste nace pendiente; no toca el ledger hasta aprobarse.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "product_id, expected_quantity, actual_quantity, adjustment_type, reason"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), inventory.CreateAdjustmentInput{
		ProductID:        in.ProductID,
		ExpectedQuantity: in.ExpectedQuantity,
		ActualQuantity:   in.ActualQuantity,
		AdjustmentType:   in.AdjustmentType,
		Reason:           in.Reason,
		CreatedBy:        GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(out))
}

// Update godoc
// @Summary      Corregir ajuste pendiente
// @Description  Re-deriva la cantidad de ajuste; un ajuste aprobado no se edita.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.UpdateAdjustmentRequest  true  "campos a corregir"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [patch]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), inventory.UpdateAdjustmentInput{
		ExpectedQuantity: in.ExpectedQuantity,
		ActualQuantity:   in.ActualQuantity,
		AdjustmentType:   in.AdjustmentType,
		Reason:           in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAdjustmentResponse(out))
}

// Approve godoc
// @Summary      Aprobar ajuste
// @Description  Emite exactamente un asiento ADJUSTMENT en el ledger y deja el
//
//	ajuste inmutable. Aprobar dos veces es error.
//
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	entry, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToLedgerEntryResponse(entry))
}

// Reject godoc
// @Summary      Rechazar ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      204  "sin contenido"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPending godoc
// @Summary      Ajustes pendientes de aprobación
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AdjustmentResponse
// @Router       /api/adjustments/pending [get]
func (h *AdjustmentHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.ToAdjustmentResponse(a))
	}
	return c.JSON(out)
}
