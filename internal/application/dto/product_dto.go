package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// CreateProductRequest alta de producto. InitialStock > 0 genera un asiento
// INITIAL_STOCK en el ledger.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	ProductType   string          `json:"product_type"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Description   string          `json:"description"`
}

// UpdateProductRequest edición de catálogo. El stock no se edita por aquí: solo
// el ledger escribe current_stock.
type UpdateProductRequest struct {
	Name          string          `json:"name"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Description   string          `json:"description"`
	IsActive      *bool           `json:"is_active"`
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	ProductType   string          `json:"product_type"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockStatus   string          `json:"stock_status"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		ProductType:   p.ProductType,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		UnitOfMeasure: p.UnitOfMeasure,
		UnitCost:      p.UnitCost,
		StockStatus:   p.StockStatus(),
		Description:   p.Description,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
}
