package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOM lista de materiales: la receta de componentes y operaciones para producir una
// unidad de un producto terminado. Colaborador de solo lectura para las órdenes de
// fabricación: al crear una MO sus ratios se copian (snapshot), nunca se referencian
// en vivo.
type BOM struct {
	ID          string
	ProductID   string
	Name        string
	Version     string
	IsActive    bool // una sola BOM activa por producto
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Components []BOMComponent
	Operations []BOMOperation
}

// BOMComponent materia prima requerida por la BOM, con cantidad por unidad producida.
type BOMComponent struct {
	ID              string
	BOMID           string
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	Notes           string
}

// BOMOperation paso de trabajo de la BOM, atado a un centro de trabajo.
type BOMOperation struct {
	ID               string
	BOMID            string
	Name             string
	Sequence         int // orden del proceso, único por BOM
	WorkCenterID     string
	DurationMinutes  int // por unidad
	SetupTimeMinutes int // una sola vez por orden
	Description      string
}

// TotalTimeMinutes tiempo total estimado para producir la cantidad dada,
// incluyendo el setup único.
func (op *BOMOperation) TotalTimeMinutes(quantity int) int {
	return op.DurationMinutes*quantity + op.SetupTimeMinutes
}
