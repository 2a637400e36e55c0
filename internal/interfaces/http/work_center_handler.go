package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/usecase"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// WorkCenterHandler maneja los centros de trabajo (protegido).
type WorkCenterHandler struct {
	uc *usecase.WorkCenterUseCase
}

// NewWorkCenterHandler construye el handler.
func NewWorkCenterHandler(uc *usecase.WorkCenterUseCase) *WorkCenterHandler {
	return &WorkCenterHandler{uc: uc}
}

// Create godoc
// @Summary      Crear centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkCenterRequest  true  "name, code, cost_per_hour, capacity"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-centers [post]
func (h *WorkCenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), usecase.CreateWorkCenterInput{
		Name:        in.Name,
		Code:        in.Code,
		CostPerHour: in.CostPerHour,
		Capacity:    in.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkCenterResponse(out))
}

// GetByID godoc
// @Summary      Obtener centro de trabajo por ID
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del centro"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-centers/{id} [get]
func (h *WorkCenterHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkCenterResponse(out))
}

// List godoc
// @Summary      Listar centros de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos (default true)"
// @Success      200  {array}  map[string]any
// @Router       /api/work-centers [get]
func (h *WorkCenterHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.QueryBool("active", true))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, wc := range list {
		out = append(out, toWorkCenterResponse(wc))
	}
	return c.JSON(out)
}

func toWorkCenterResponse(wc *entity.WorkCenter) fiber.Map {
	return fiber.Map{
		"id":            wc.ID,
		"name":          wc.Name,
		"code":          wc.Code,
		"cost_per_hour": wc.CostPerHour,
		"capacity":      wc.Capacity,
		"is_active":     wc.IsActive,
		"created_at":    wc.CreatedAt,
	}
}
