package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkCenter puesto o máquina donde se ejecutan operaciones de fabricación.
type WorkCenter struct {
	ID          string
	Name        string
	Code        string
	CostPerHour decimal.Decimal
	Capacity    int // operaciones simultáneas
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OperationCost costo de ocupar el centro durante los minutos dados.
func (w *WorkCenter) OperationCost(minutes int) decimal.Decimal {
	return w.CostPerHour.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(60))
}
