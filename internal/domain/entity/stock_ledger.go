package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeMOConsumption = "MO_CONSUMPTION" // consumo de componentes por orden de fabricación
	MovementTypeMOProduction  = "MO_PRODUCTION"  // entrada de producto terminado
	MovementTypeManualIn      = "MANUAL_IN"      // entrada manual
	MovementTypeManualOut     = "MANUAL_OUT"     // salida manual
	MovementTypeAdjustment    = "ADJUSTMENT"     // ajuste aprobado
	MovementTypeInitialStock  = "INITIAL_STOCK"  // carga inicial
)

// ValidMovementType valida que el tipo de movimiento sea uno de los conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeMOConsumption, MovementTypeMOProduction, MovementTypeManualIn,
		MovementTypeManualOut, MovementTypeAdjustment, MovementTypeInitialStock:
		return true
	}
	return false
}

// StockLedgerEntry asiento inmutable del ledger de stock: única fuente de verdad
// del historial de inventario. Invariante: StockAfter = StockBefore + QuantityChange,
// calculado al momento de escribir; una vez persistido nunca se actualiza ni borra.
type StockLedgerEntry struct {
	ID              string
	ProductID       string
	QuantityChange  decimal.Decimal // positivo entrada, negativo consumo
	StockBefore     decimal.Decimal
	StockAfter      decimal.Decimal
	MovementType    string
	Reference       string // número de MO, número de ajuste, etc.
	RelatedMOID     string // vacío si no aplica
	Notes           string
	CreatedBy       string
	TransactionTime time.Time
}

// CheckBalance verifica el invariante del asiento. Un false aquí es un bug, no
// una condición de negocio.
func (e *StockLedgerEntry) CheckBalance() bool {
	return e.StockAfter.Equal(e.StockBefore.Add(e.QuantityChange))
}

// LedgerSummaryLine total agregado por tipo de movimiento en un rango de fechas.
type LedgerSummaryLine struct {
	MovementType  string
	EntryCount    int64
	TotalQuantity decimal.Decimal
}
