package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/usecase"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// BOMHandler maneja las listas de materiales (protegido).
type BOMHandler struct {
	uc *usecase.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *usecase.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear BOM
// @Description  Si el producto ya tiene una BOM activa, la nueva la reemplaza.
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "Receta completa: componentes y operaciones"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := usecase.CreateBOMInput{
		ProductID:   in.ProductID,
		Name:        in.Name,
		Version:     in.Version,
		Description: in.Description,
		CreatedBy:   GetUserID(c),
	}
	for _, comp := range in.Components {
		input.Components = append(input.Components, usecase.BOMComponentInput{
			ComponentID:     comp.ComponentID,
			QuantityPerUnit: comp.QuantityPerUnit,
			Notes:           comp.Notes,
		})
	}
	for _, op := range in.Operations {
		input.Operations = append(input.Operations, usecase.BOMOperationInput{
			Name:             op.Name,
			Sequence:         op.Sequence,
			WorkCenterID:     op.WorkCenterID,
			DurationMinutes:  op.DurationMinutes,
			SetupTimeMinutes: op.SetupTimeMinutes,
			Description:      op.Description,
		})
	}
	out, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBOMResponse(out))
}

// GetByID godoc
// @Summary      Obtener BOM por ID (con componentes y operaciones)
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la BOM"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBOMResponse(out))
}

// List godoc
// @Summary      Listar BOMs
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]any
// @Router       /api/boms [get]
func (h *BOMHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, b := range list {
		out = append(out, toBOMResponse(b))
	}
	return c.JSON(out)
}

// EstimatedCost godoc
// @Summary      Costo estimado de producción
// @Description  Materiales a costo unitario vigente más operaciones a tarifa del centro de trabajo.
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la BOM"
// @Param        quantity  query  int     false  "Cantidad a producir (default 1)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/cost [get]
func (h *BOMHandler) EstimatedCost(c *fiber.Ctx) error {
	est, err := h.uc.EstimatedCost(c.Context(), c.Params("id"), c.QueryInt("quantity", 1))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"bom_id":         est.BOMID,
		"quantity":       est.Quantity,
		"material_cost":  est.MaterialCost,
		"operation_cost": est.OperationCost,
		"total_cost":     est.TotalCost,
	})
}

func toBOMResponse(b *entity.BOM) fiber.Map {
	components := make([]fiber.Map, 0, len(b.Components))
	for i := range b.Components {
		comp := &b.Components[i]
		components = append(components, fiber.Map{
			"component_id":      comp.ComponentID,
			"quantity_per_unit": comp.QuantityPerUnit,
			"notes":             comp.Notes,
		})
	}
	operations := make([]fiber.Map, 0, len(b.Operations))
	for i := range b.Operations {
		op := &b.Operations[i]
		operations = append(operations, fiber.Map{
			"name":               op.Name,
			"sequence":           op.Sequence,
			"work_center_id":     op.WorkCenterID,
			"duration_minutes":   op.DurationMinutes,
			"setup_time_minutes": op.SetupTimeMinutes,
			"description":        op.Description,
		})
	}
	return fiber.Map{
		"id":          b.ID,
		"product_id":  b.ProductID,
		"name":        b.Name,
		"version":     b.Version,
		"is_active":   b.IsActive,
		"description": b.Description,
		"components":  components,
		"operations":  operations,
		"created_at":  b.CreatedAt,
	}
}
