package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

func draftMO() *entity.ManufacturingOrder {
	return &entity.ManufacturingOrder{
		ID:                "mo-1",
		Number:            "MO2026090001",
		ProductID:         "prod-1",
		BOMID:             "bom-1",
		QuantityToProduce: 10,
		Status:            entity.MOStatusDraft,
		Priority:          entity.MOPriorityMedium,
	}
}

func TestManufacturingOrder_CicloCompleto(t *testing.T) {
	mo := draftMO()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, mo.Confirm())
	assert.Equal(t, entity.MOStatusConfirmed, mo.Status)

	require.NoError(t, mo.MarkInProgress(now))
	assert.Equal(t, entity.MOStatusInProgress, mo.Status)
	require.NotNil(t, mo.ActualStartDate)

	require.NoError(t, mo.MarkDone(now.Add(2*time.Hour)))
	assert.Equal(t, entity.MOStatusDone, mo.Status)
	assert.Equal(t, 10, mo.QuantityProduced, "la cantidad producida se fija al completar")
	require.NotNil(t, mo.CompletionDate)
}

func TestManufacturingOrder_TransicionesInvalidas(t *testing.T) {
	now := time.Now()
	var verr *domain.ValidationError

	mo := draftMO()
	require.ErrorAs(t, mo.MarkInProgress(now), &verr, "DRAFT no pasa directo a IN_PROGRESS")
	require.ErrorAs(t, mo.MarkDone(now), &verr, "DRAFT no se completa")

	require.NoError(t, mo.Confirm())
	require.ErrorAs(t, mo.Confirm(), &verr, "CONFIRMED no se confirma dos veces")

	require.NoError(t, mo.MarkDone(now), "CONFIRMED sí puede completarse sin pasar por IN_PROGRESS")
	require.ErrorAs(t, mo.Cancel(), &verr, "DONE es terminal")
	require.ErrorAs(t, mo.MarkDone(now), &verr)
}

func TestManufacturingOrder_CancelSoloSinTrabajoEnCurso(t *testing.T) {
	mo := draftMO()
	require.NoError(t, mo.Cancel())
	assert.Equal(t, entity.MOStatusCanceled, mo.Status)

	mo = draftMO()
	require.NoError(t, mo.Confirm())
	require.NoError(t, mo.Cancel())

	mo = draftMO()
	require.NoError(t, mo.Confirm())
	require.NoError(t, mo.MarkInProgress(time.Now()))
	var verr *domain.ValidationError
	require.ErrorAs(t, mo.Cancel(), &verr, "con trabajo en curso no se cancela")
}

func TestManufacturingOrder_ProgressPercentage(t *testing.T) {
	mo := draftMO()
	assert.Equal(t, float64(0), mo.ProgressPercentage(), "sin órdenes de trabajo no hay avance")

	mo.WorkOrders = []entity.WorkOrder{
		{Status: entity.WOStatusCompleted},
		{Status: entity.WOStatusInProgress},
		{Status: entity.WOStatusCompleted},
		{Status: entity.WOStatusPending},
	}
	assert.InDelta(t, 50.0, mo.ProgressPercentage(), 0.001)
}

func TestComponentRequirement_RemainingYSatisfied(t *testing.T) {
	r := &entity.ComponentRequirement{
		QuantityPerUnit:  decimal.NewFromFloat(1.5),
		RequiredQuantity: decimal.NewFromFloat(15), // 1.5 × 10
		ConsumedQuantity: decimal.NewFromFloat(6),
	}
	assert.True(t, r.RemainingQuantity().Equal(decimal.NewFromFloat(9)))

	assert.True(t, r.IsSatisfied(decimal.NewFromFloat(9)), "el stock justo alcanza")
	assert.False(t, r.IsSatisfied(decimal.NewFromFloat(8.9999)))

	r.ConsumedQuantity = r.RequiredQuantity
	assert.True(t, r.RemainingQuantity().IsZero())
	assert.True(t, r.IsSatisfied(decimal.Zero), "sin pendiente, cualquier stock satisface")
}
