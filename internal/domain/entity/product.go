package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeRawMaterial  = "RAW_MATERIAL"
	ProductTypeFinishedGood = "FINISHED_GOOD"
)

// Estados de stock legibles (para listados y alertas).
const (
	StockStatusOut = "OUT_OF_STOCK"
	StockStatusLow = "LOW_STOCK"
	StockStatusOK  = "IN_STOCK"
)

// Product materia prima o producto terminado del catálogo.
// CurrentStock es un cache autoritativo: lo escribe exclusivamente el ledger de stock
// como efecto de un asiento; ningún otro componente lo muta directamente.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	ProductType   string // RAW_MATERIAL, FINISHED_GOOD
	CurrentStock  decimal.Decimal
	MinimumStock  decimal.Decimal
	UnitOfMeasure string // units, kg, liters, meters...
	UnitCost      decimal.Decimal
	Description   string
	IsActive      bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinimumStock)
}

// StockStatus devuelve el estado de stock legible.
func (p *Product) StockStatus() string {
	if p.CurrentStock.LessThanOrEqual(decimal.Zero) {
		return StockStatusOut
	}
	if p.IsLowStock() {
		return StockStatusLow
	}
	return StockStatusOK
}

// CanConsume indica si hay stock suficiente para consumir la cantidad dada.
func (p *Product) CanConsume(quantity decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(quantity)
}
