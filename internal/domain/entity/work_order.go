package entity

import (
	"fmt"
	"time"

	"github.com/ordio-mrp/ordio-api/internal/domain"
)

// Estados de una orden de trabajo.
const (
	WOStatusPending    = "PENDING"
	WOStatusInProgress = "IN_PROGRESS"
	WOStatusPaused     = "PAUSED"
	WOStatusCompleted  = "COMPLETED"
	WOStatusCanceled   = "CANCELED"
)

// WorkOrder una operación de taller dentro de una orden de fabricación, atada a un
// centro de trabajo. Máquina de estados: PENDING → IN_PROGRESS ⇄ PAUSED → COMPLETED;
// CANCELED desde cualquier estado no terminal. El lote de WOs se crea una sola vez,
// al confirmar la MO, copiando las operaciones de la BOM; nunca se crean sueltas.
type WorkOrder struct {
	ID                       string
	Number                   string // <número MO>-NN
	MOID                     string
	BOMOperationID           string
	Name                     string
	WorkCenterID             string
	Sequence                 int
	EstimatedDurationMinutes int // duración de la operación × cantidad, al crear
	ActualDurationMinutes    int // acumulado de sesiones IN_PROGRESS
	Status                   string
	OperatorID               string
	ScheduledStartDate       *time.Time
	ActualStartDate          *time.Time
	CompletionDate           *time.Time
	PauseStartTime           *time.Time
	TotalPauseMinutes        int
	Notes                    string
	QualityNotes             string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// IsTerminal indica si la orden de trabajo ya no admite transiciones.
func (wo *WorkOrder) IsTerminal() bool {
	return wo.Status == WOStatusCompleted || wo.Status == WOStatusCanceled
}

// Start transiciona PENDING → IN_PROGRESS y estampa el inicio de la sesión.
// Reanudar desde PAUSED es una operación distinta (Resume).
func (wo *WorkOrder) Start(now time.Time, operatorID string) error {
	if wo.Status != WOStatusPending {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden de trabajo PENDING puede iniciarse (actual: %s)", wo.Status))
	}
	wo.Status = WOStatusInProgress
	wo.ActualStartDate = &now
	if operatorID != "" {
		wo.OperatorID = operatorID
	}
	return nil
}

// Pause transiciona IN_PROGRESS → PAUSED, acumulando el tiempo de la sesión en
// curso en ActualDurationMinutes.
func (wo *WorkOrder) Pause(now time.Time) error {
	if wo.Status != WOStatusInProgress {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden de trabajo IN_PROGRESS puede pausarse (actual: %s)", wo.Status))
	}
	if wo.ActualStartDate != nil && wo.PauseStartTime == nil {
		wo.ActualDurationMinutes += elapsedMinutes(*wo.ActualStartDate, now)
	}
	wo.Status = WOStatusPaused
	wo.PauseStartTime = &now
	return nil
}

// Resume transiciona PAUSED → IN_PROGRESS: suma la pausa a TotalPauseMinutes,
// limpia PauseStartTime y re-estampa el inicio para la nueva sesión.
func (wo *WorkOrder) Resume(now time.Time) error {
	if wo.Status != WOStatusPaused {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden de trabajo PAUSED puede reanudarse (actual: %s)", wo.Status))
	}
	if wo.PauseStartTime != nil {
		wo.TotalPauseMinutes += elapsedMinutes(*wo.PauseStartTime, now)
	}
	wo.Status = WOStatusInProgress
	wo.ActualStartDate = &now
	wo.PauseStartTime = nil
	return nil
}

// Complete transiciona IN_PROGRESS o PAUSED → COMPLETED. Si actualDuration viene
// informado reemplaza el acumulador; si no y la orden estaba IN_PROGRESS, se suma
// la sesión abierta (en PAUSED ya quedó sumada al pausar). Limpia la contabilidad
// de pausas.
func (wo *WorkOrder) Complete(now time.Time, actualDuration *int) error {
	if wo.Status != WOStatusInProgress && wo.Status != WOStatusPaused {
		return domain.NewValidationError("status",
			fmt.Sprintf("solo una orden de trabajo IN_PROGRESS o PAUSED puede completarse (actual: %s)", wo.Status))
	}
	if actualDuration != nil {
		if *actualDuration < 0 {
			return domain.NewValidationError("actual_duration", "la duración no puede ser negativa")
		}
		wo.ActualDurationMinutes = *actualDuration
	} else if wo.Status == WOStatusInProgress && wo.ActualStartDate != nil {
		wo.ActualDurationMinutes += elapsedMinutes(*wo.ActualStartDate, now)
	}
	wo.Status = WOStatusCompleted
	wo.CompletionDate = &now
	wo.PauseStartTime = nil
	return nil
}

// Cancel transiciona a CANCELED desde cualquier estado no terminal.
func (wo *WorkOrder) Cancel() error {
	if wo.IsTerminal() {
		return domain.NewValidationError("status",
			fmt.Sprintf("una orden de trabajo %s no puede cancelarse", wo.Status))
	}
	wo.Status = WOStatusCanceled
	wo.PauseStartTime = nil
	return nil
}

// EfficiencyPercentage eficiencia estimado/real × 100; 0 cuando aún no hay tiempo real.
func (wo *WorkOrder) EfficiencyPercentage() float64 {
	if wo.ActualDurationMinutes == 0 {
		return 0
	}
	return float64(wo.EstimatedDurationMinutes) / float64(wo.ActualDurationMinutes) * 100
}

// IsOverdue indica si la orden debió empezar y sigue sin completarse.
func (wo *WorkOrder) IsOverdue(now time.Time) bool {
	if wo.ScheduledStartDate == nil || wo.Status == WOStatusCompleted {
		return false
	}
	return now.After(*wo.ScheduledStartDate)
}

func elapsedMinutes(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
