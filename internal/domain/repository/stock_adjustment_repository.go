package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// StockAdjustmentRepository puerto de persistencia para ajustes de stock (DIP).
type StockAdjustmentRepository interface {
	Create(adjustment *entity.StockAdjustment) error
	GetByID(id string) (*entity.StockAdjustment, error)
	GetForUpdate(id string) (*entity.StockAdjustment, error)
	Update(adjustment *entity.StockAdjustment) error
	Delete(id string) error
	ListPending(limit, offset int) ([]*entity.StockAdjustment, error)
	LastNumberWithPrefix(prefix string) (string, error)
}
