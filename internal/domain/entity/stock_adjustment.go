package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de inventario.
const (
	AdjustmentTypeCount      = "COUNT"      // conteo físico
	AdjustmentTypeDamage     = "DAMAGE"     // mercancía dañada
	AdjustmentTypeLoss       = "LOSS"       // pérdida o faltante
	AdjustmentTypeFound      = "FOUND"      // mercancía encontrada
	AdjustmentTypeCorrection = "CORRECTION" // corrección de datos
)

// ValidAdjustmentType valida el tipo de ajuste.
func ValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentTypeCount, AdjustmentTypeDamage, AdjustmentTypeLoss,
		AdjustmentTypeFound, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// StockAdjustment corrección de inventario propuesta y revisable.
// Nace pendiente; al aprobarse emite exactamente un asiento en el ledger y queda
// inmutable. El rechazo la elimina sin tocar el ledger.
type StockAdjustment struct {
	ID                 string
	Number             string // ADJyyyymm####
	ProductID          string
	ExpectedQuantity   decimal.Decimal
	ActualQuantity     decimal.Decimal
	AdjustmentQuantity decimal.Decimal // actual - expected, derivado al crear/actualizar
	AdjustmentType     string
	Reason             string
	IsApproved         bool
	ApprovedBy         string
	ApprovedAt         *time.Time
	CreatedBy          string
	CreatedAt          time.Time
}

// Recalculate deriva AdjustmentQuantity de los dos campos almacenados.
// Idempotente: recalcular sobre lo ya calculado no cambia nada.
func (a *StockAdjustment) Recalculate() {
	a.AdjustmentQuantity = a.ActualQuantity.Sub(a.ExpectedQuantity)
}
