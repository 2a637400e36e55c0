package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product (DIP).
// UpdateCurrentStock existe solo para el escritor del ledger: ningún otro caso de
// uso debe invocarlo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error) // SELECT ... FOR UPDATE
	Update(product *entity.Product) error
	UpdateCurrentStock(productID string, stock decimal.Decimal) error
	List(productType string, activeOnly bool, limit, offset int) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
}
