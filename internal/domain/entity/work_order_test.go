package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

var base = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func pendingWO() *entity.WorkOrder {
	return &entity.WorkOrder{
		ID:                       "wo-1",
		Number:                   "MO2026090001-01",
		MOID:                     "mo-1",
		Status:                   entity.WOStatusPending,
		EstimatedDurationMinutes: 120,
	}
}

// El tiempo real acumulado es la suma de las sesiones IN_PROGRESS; las pausas se
// contabilizan aparte y no cuentan como trabajo.
func TestWorkOrder_PauseResumeAcumulaSesiones(t *testing.T) {
	wo := pendingWO()

	require.NoError(t, wo.Start(base, "op-1"))
	assert.Equal(t, entity.WOStatusInProgress, wo.Status)
	assert.Equal(t, "op-1", wo.OperatorID)

	// 30 min de trabajo, pausa de 15, 20 min más de trabajo.
	require.NoError(t, wo.Pause(base.Add(30*time.Minute)))
	assert.Equal(t, entity.WOStatusPaused, wo.Status)
	assert.Equal(t, 30, wo.ActualDurationMinutes)
	require.NotNil(t, wo.PauseStartTime)

	require.NoError(t, wo.Resume(base.Add(45*time.Minute)))
	assert.Equal(t, entity.WOStatusInProgress, wo.Status)
	assert.Equal(t, 15, wo.TotalPauseMinutes)
	assert.Nil(t, wo.PauseStartTime)

	require.NoError(t, wo.Complete(base.Add(65*time.Minute), nil))
	assert.Equal(t, entity.WOStatusCompleted, wo.Status)
	assert.Equal(t, 50, wo.ActualDurationMinutes, "30 + 20 minutos de sesiones, sin contar la pausa")
	assert.Equal(t, 15, wo.TotalPauseMinutes)
	require.NotNil(t, wo.CompletionDate)
}

// Completar desde PAUSED no vuelve a sumar la sesión: ya quedó acumulada al pausar.
func TestWorkOrder_CompleteDesdePausedNoDuplicaSesion(t *testing.T) {
	wo := pendingWO()
	require.NoError(t, wo.Start(base, "op-1"))
	require.NoError(t, wo.Pause(base.Add(40*time.Minute)))

	require.NoError(t, wo.Complete(base.Add(60*time.Minute), nil))
	assert.Equal(t, 40, wo.ActualDurationMinutes)
	assert.Nil(t, wo.PauseStartTime)
}

// La duración manual reemplaza el acumulador por completo.
func TestWorkOrder_CompleteConDuracionManual(t *testing.T) {
	wo := pendingWO()
	require.NoError(t, wo.Start(base, "op-1"))

	manual := 95
	require.NoError(t, wo.Complete(base.Add(10*time.Minute), &manual))
	assert.Equal(t, 95, wo.ActualDurationMinutes)

	wo2 := pendingWO()
	require.NoError(t, wo2.Start(base, "op-1"))
	negative := -5
	err := wo2.Complete(base.Add(10*time.Minute), &negative)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestWorkOrder_TransicionesInvalidas(t *testing.T) {
	wo := pendingWO()

	// PENDING no se pausa ni se reanuda ni se completa.
	var verr *domain.ValidationError
	require.ErrorAs(t, wo.Pause(base), &verr)
	require.ErrorAs(t, wo.Resume(base), &verr)
	require.ErrorAs(t, wo.Complete(base, nil), &verr)

	require.NoError(t, wo.Start(base, "op-1"))
	// IN_PROGRESS no se inicia dos veces ni se reanuda.
	require.ErrorAs(t, wo.Start(base, "op-1"), &verr)
	require.ErrorAs(t, wo.Resume(base), &verr)

	// Terminal: nada más aplica.
	require.NoError(t, wo.Complete(base.Add(time.Minute), nil))
	require.ErrorAs(t, wo.Pause(base), &verr)
	require.ErrorAs(t, wo.Cancel(), &verr)
}

func TestWorkOrder_CancelDesdeCualquierEstadoNoTerminal(t *testing.T) {
	wo := pendingWO()
	require.NoError(t, wo.Cancel())
	assert.Equal(t, entity.WOStatusCanceled, wo.Status)

	wo = pendingWO()
	require.NoError(t, wo.Start(base, "op-1"))
	require.NoError(t, wo.Pause(base.Add(5*time.Minute)))
	require.NoError(t, wo.Cancel())
	assert.Equal(t, entity.WOStatusCanceled, wo.Status)
	assert.Nil(t, wo.PauseStartTime)
}

func TestWorkOrder_EfficiencyPercentage(t *testing.T) {
	wo := pendingWO()
	assert.Equal(t, float64(0), wo.EfficiencyPercentage(), "sin tiempo real todavía no hay eficiencia")

	wo.ActualDurationMinutes = 60
	assert.InDelta(t, 200.0, wo.EfficiencyPercentage(), 0.001, "120 estimados / 60 reales")

	wo.ActualDurationMinutes = 240
	assert.InDelta(t, 50.0, wo.EfficiencyPercentage(), 0.001)
}

func TestWorkOrder_IsOverdue(t *testing.T) {
	wo := pendingWO()

	// Sin fecha programada nunca está atrasada.
	assert.False(t, wo.IsOverdue(base.Add(24*time.Hour)))

	scheduled := base
	wo.ScheduledStartDate = &scheduled
	assert.False(t, wo.IsOverdue(base.Add(-time.Hour)))
	assert.True(t, wo.IsOverdue(base.Add(time.Hour)))

	// Una orden completada ya no puede estar atrasada.
	require.NoError(t, wo.Start(base, "op-1"))
	require.NoError(t, wo.Complete(base.Add(time.Hour), nil))
	assert.False(t, wo.IsOverdue(base.Add(24*time.Hour)))
}
