package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ordio-mrp/ordio-api/internal/application/dto"
	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// InventoryHandler maneja los asientos del ledger de stock (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Description  MANUAL_IN suma, MANUAL_OUT resta. La cantidad viene siempre positiva;
//
//	el tipo de movimiento define el signo del asiento.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, quantity, movement_type, reference, notes"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Por la API solo entran movimientos manuales; el resto de tipos los emiten
	// los motores de ajustes y fabricación.
	if in.MovementType != entity.MovementTypeManualIn && in.MovementType != entity.MovementTypeManualOut {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "movement_type debe ser MANUAL_IN o MANUAL_OUT"})
	}
	if in.Quantity.Sign() <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positiva"})
	}
	change := in.Quantity
	if in.MovementType == entity.MovementTypeManualOut {
		change = change.Neg()
	}
	entry, err := h.uc.Record(c.Context(), inventory.RecordInput{
		ProductID:      in.ProductID,
		QuantityChange: change,
		MovementType:   in.MovementType,
		Reference:      in.Reference,
		Notes:          in.Notes,
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLedgerEntryResponse(entry))
}

// History godoc
// @Summary      Historial del ledger de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        from   query  string  false  "RFC3339"
// @Param        to     query  string  false  "RFC3339"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	entries, err := h.uc.History(c.Context(), c.Params("id"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLedgerEntryResponses(entries))
}

// ListByMovementType godoc
// @Summary      Asientos del ledger por tipo de movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  path   string  true   "MO_CONSUMPTION, MO_PRODUCTION, MANUAL_IN, MANUAL_OUT, ADJUSTMENT, INITIAL_STOCK"
// @Param        from  query  string  false  "RFC3339"
// @Param        to    query  string  false  "RFC3339"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/inventory/movements/{type} [get]
func (h *InventoryHandler) ListByMovementType(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	entries, err := h.uc.ListByMovementType(c.Context(), c.Params("type"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLedgerEntryResponses(entries))
}

// Summary godoc
// @Summary      Totales del ledger por tipo de movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC3339"
// @Param        to    query  string  false  "RFC3339"
// @Success      200  {array}  dto.LedgerSummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lines, err := h.uc.Summary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerSummaryResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.LedgerSummaryResponse{
			MovementType:  l.MovementType,
			EntryCount:    l.EntryCount,
			TotalQuantity: l.TotalQuantity,
		})
	}
	return c.JSON(out)
}

func toLedgerEntryResponses(entries []*entity.StockLedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return out
}

// parseDateRange lee from/to en RFC3339 de la query string.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}
