package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// CreateMORequest alta de orden de fabricación.
type CreateMORequest struct {
	ProductID          string     `json:"product_id"`
	BOMID              string     `json:"bom_id"` // vacío = BOM activa del producto
	QuantityToProduce  int        `json:"quantity_to_produce"`
	Priority           string     `json:"priority"`
	ScheduledStartDate time.Time  `json:"scheduled_start_date"`
	ScheduledEndDate   *time.Time `json:"scheduled_end_date"`
	AssigneeID         string     `json:"assignee_id"`
	Notes              string     `json:"notes"`
}

// MOResponse orden de fabricación expuesta por la API.
type MOResponse struct {
	ID                 string              `json:"id"`
	Number             string              `json:"number"`
	ProductID          string              `json:"product_id"`
	BOMID              string              `json:"bom_id"`
	QuantityToProduce  int                 `json:"quantity_to_produce"`
	QuantityProduced   int                 `json:"quantity_produced"`
	Status             string              `json:"status"`
	Priority           string              `json:"priority"`
	ScheduledStartDate time.Time           `json:"scheduled_start_date"`
	ScheduledEndDate   *time.Time          `json:"scheduled_end_date,omitempty"`
	ActualStartDate    *time.Time          `json:"actual_start_date,omitempty"`
	CompletionDate     *time.Time          `json:"completion_date,omitempty"`
	AssigneeID         string              `json:"assignee_id,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	WorkOrders         []WOResponse        `json:"work_orders,omitempty"`
	Requirements       []RequirementStatus `json:"component_requirements,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// RequirementStatus requerimiento de componente con disponibilidad en vivo.
type RequirementStatus struct {
	ComponentID       string          `json:"component_id"`
	ComponentName     string          `json:"component_name"`
	ComponentSKU      string          `json:"component_sku"`
	QuantityPerUnit   decimal.Decimal `json:"quantity_per_unit"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	ConsumedQuantity  decimal.Decimal `json:"consumed_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	Shortage          decimal.Decimal `json:"shortage"`
	IsSufficient      bool            `json:"is_sufficient"`
}

// ToMOResponse mapea la orden al DTO de salida (sin hijos).
func ToMOResponse(mo *entity.ManufacturingOrder) MOResponse {
	resp := MOResponse{
		ID:                 mo.ID,
		Number:             mo.Number,
		ProductID:          mo.ProductID,
		BOMID:              mo.BOMID,
		QuantityToProduce:  mo.QuantityToProduce,
		QuantityProduced:   mo.QuantityProduced,
		Status:             mo.Status,
		Priority:           mo.Priority,
		ScheduledStartDate: mo.ScheduledStartDate,
		ScheduledEndDate:   mo.ScheduledEndDate,
		ActualStartDate:    mo.ActualStartDate,
		CompletionDate:     mo.CompletionDate,
		AssigneeID:         mo.AssigneeID,
		Notes:              mo.Notes,
		CreatedAt:          mo.CreatedAt,
	}
	for i := range mo.WorkOrders {
		resp.WorkOrders = append(resp.WorkOrders, ToWOResponse(&mo.WorkOrders[i]))
	}
	return resp
}

// WOTransitionRequest cuerpo de pause/resume/complete/cancel.
type WOTransitionRequest struct {
	OperatorID     string `json:"operator_id"`
	Notes          string `json:"notes"`
	ActualDuration *int   `json:"actual_duration"` // solo complete: override manual en minutos
}

// WOResponse orden de trabajo expuesta por la API.
type WOResponse struct {
	ID                       string     `json:"id"`
	Number                   string     `json:"number"`
	MOID                     string     `json:"mo_id"`
	Name                     string     `json:"name"`
	WorkCenterID             string     `json:"work_center_id"`
	Sequence                 int        `json:"sequence"`
	Status                   string     `json:"status"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	ActualDurationMinutes    int        `json:"actual_duration_minutes"`
	TotalPauseMinutes        int        `json:"total_pause_minutes"`
	EfficiencyPercentage     float64    `json:"efficiency_percentage"`
	OperatorID               string     `json:"operator_id,omitempty"`
	ScheduledStartDate       *time.Time `json:"scheduled_start_date,omitempty"`
	ActualStartDate          *time.Time `json:"actual_start_date,omitempty"`
	CompletionDate           *time.Time `json:"completion_date,omitempty"`
	IsOverdue                bool       `json:"is_overdue"`
	Notes                    string     `json:"notes,omitempty"`
}

// ToWOResponse mapea la orden de trabajo al DTO de salida.
func ToWOResponse(wo *entity.WorkOrder) WOResponse {
	return WOResponse{
		ID:                       wo.ID,
		Number:                   wo.Number,
		MOID:                     wo.MOID,
		Name:                     wo.Name,
		WorkCenterID:             wo.WorkCenterID,
		Sequence:                 wo.Sequence,
		Status:                   wo.Status,
		EstimatedDurationMinutes: wo.EstimatedDurationMinutes,
		ActualDurationMinutes:    wo.ActualDurationMinutes,
		TotalPauseMinutes:        wo.TotalPauseMinutes,
		EfficiencyPercentage:     wo.EfficiencyPercentage(),
		OperatorID:               wo.OperatorID,
		ScheduledStartDate:       wo.ScheduledStartDate,
		ActualStartDate:          wo.ActualStartDate,
		CompletionDate:           wo.CompletionDate,
		IsOverdue:                wo.IsOverdue(time.Now()),
		Notes:                    wo.Notes,
	}
}

// WOEventResponse evento de auditoría de una orden de trabajo.
type WOEventResponse struct {
	ID         string    `json:"id"`
	EventType  string    `json:"event_type"`
	Notes      string    `json:"notes,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CreateBOMRequest alta de BOM completa.
type CreateBOMRequest struct {
	ProductID   string                  `json:"product_id"`
	Name        string                  `json:"name"`
	Version     string                  `json:"version"`
	Description string                  `json:"description"`
	Components  []BOMComponentRequest   `json:"components"`
	Operations  []BOMOperationRequest   `json:"operations"`
}

// BOMComponentRequest componente de la receta.
type BOMComponentRequest struct {
	ComponentID     string          `json:"component_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Notes           string          `json:"notes"`
}

// BOMOperationRequest operación de la receta.
type BOMOperationRequest struct {
	Name             string `json:"name"`
	Sequence         int    `json:"sequence"`
	WorkCenterID     string `json:"work_center_id"`
	DurationMinutes  int    `json:"duration_minutes"`
	SetupTimeMinutes int    `json:"setup_time_minutes"`
	Description      string `json:"description"`
}

// CreateWorkCenterRequest alta de centro de trabajo.
type CreateWorkCenterRequest struct {
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	Capacity    int             `json:"capacity"`
}
