package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
)

// Estados de una orden de fabricación.
const (
	MOStatusDraft      = "DRAFT"
	MOStatusConfirmed  = "CONFIRMED"
	MOStatusInProgress = "IN_PROGRESS"
	MOStatusDone       = "DONE"
	MOStatusCanceled   = "CANCELED"
)

// Prioridades de una orden de fabricación.
const (
	MOPriorityLow    = "LOW"
	MOPriorityMedium = "MEDIUM"
	MOPriorityHigh   = "HIGH"
)

// ManufacturingOrder autorización para producir una cantidad de un producto.
// Máquina de estados: DRAFT → CONFIRMED → IN_PROGRESS → DONE; CANCELED alcanzable
// desde DRAFT o CONFIRMED. Es dueña de sus ComponentRequirement y WorkOrder
// (borrado en cascada con la orden).
type ManufacturingOrder struct {
	ID                 string
	Number             string // MOyyyymm####
	ProductID          string
	BOMID              string
	QuantityToProduce  int
	QuantityProduced   int // se fija solo al completar, junto con el último asiento
	Status             string
	Priority           string
	ScheduledStartDate time.Time
	ScheduledEndDate   *time.Time
	ActualStartDate    *time.Time
	CompletionDate     *time.Time
	AssigneeID         string
	Notes              string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	ComponentRequirements []ComponentRequirement
	WorkOrders            []WorkOrder
}

// Confirm transiciona DRAFT → CONFIRMED. La verificación de disponibilidad de
// componentes corre antes, en el caso de uso (necesita stock vivo).
func (mo *ManufacturingOrder) Confirm() error {
	if mo.Status != MOStatusDraft {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden DRAFT puede confirmarse (actual: %s)", mo.Status))
	}
	mo.Status = MOStatusConfirmed
	return nil
}

// MarkInProgress transiciona CONFIRMED → IN_PROGRESS cuando arranca la primera
// orden de trabajo.
func (mo *ManufacturingOrder) MarkInProgress(now time.Time) error {
	if mo.Status != MOStatusConfirmed {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden CONFIRMED puede pasar a IN_PROGRESS (actual: %s)", mo.Status))
	}
	mo.Status = MOStatusInProgress
	mo.ActualStartDate = &now
	return nil
}

// MarkDone transiciona a DONE y fija la cantidad producida. Se invoca solo dentro
// de la misma transacción que los asientos de consumo y producción del ledger.
func (mo *ManufacturingOrder) MarkDone(now time.Time) error {
	if mo.Status != MOStatusInProgress && mo.Status != MOStatusConfirmed {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden CONFIRMED o IN_PROGRESS puede completarse (actual: %s)", mo.Status))
	}
	mo.Status = MOStatusDone
	mo.CompletionDate = &now
	mo.QuantityProduced = mo.QuantityToProduce
	return nil
}

// Cancel transiciona a CANCELED. Política: solo desde DRAFT o CONFIRMED; una orden
// con trabajo en curso no se cancela (se resuelve manualmente).
func (mo *ManufacturingOrder) Cancel() error {
	if mo.Status != MOStatusDraft && mo.Status != MOStatusConfirmed {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden DRAFT o CONFIRMED puede cancelarse (actual: %s)", mo.Status))
	}
	mo.Status = MOStatusCanceled
	return nil
}

// ProgressPercentage avance de la orden: trabajos completados / totales × 100.
// 0 si todavía no existen órdenes de trabajo.
func (mo *ManufacturingOrder) ProgressPercentage() float64 {
	if len(mo.WorkOrders) == 0 {
		return 0
	}
	completed := 0
	for i := range mo.WorkOrders {
		if mo.WorkOrders[i].Status == WOStatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(mo.WorkOrders)) * 100
}

// ComponentRequirement necesidad de un componente para una MO concreta.
// QuantityPerUnit es una copia de valor tomada de la BOM al crear la orden
// (snapshot): editar la BOM después nunca altera una orden abierta.
// Unicidad: una fila por par (MO, componente).
type ComponentRequirement struct {
	ID               string
	MOID             string
	ComponentID      string
	QuantityPerUnit  decimal.Decimal
	RequiredQuantity decimal.Decimal // QuantityPerUnit × QuantityToProduce
	ConsumedQuantity decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RemainingQuantity cantidad aún pendiente de consumir.
func (r *ComponentRequirement) RemainingQuantity() decimal.Decimal {
	return r.RequiredQuantity.Sub(r.ConsumedQuantity)
}

// IsSatisfied indica si el stock vivo del componente cubre lo pendiente.
func (r *ComponentRequirement) IsSatisfied(currentStock decimal.Decimal) bool {
	return currentStock.GreaterThanOrEqual(r.RemainingQuantity())
}
