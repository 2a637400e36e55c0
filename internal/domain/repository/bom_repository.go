package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// BOMRepository puerto de persistencia para listas de materiales (DIP).
// Para el motor de fabricación es un colaborador de solo lectura; la escritura
// existe para el catálogo.
type BOMRepository interface {
	Create(bom *entity.BOM) error
	GetByID(id string) (*entity.BOM, error) // incluye componentes y operaciones
	GetActiveByProduct(productID string) (*entity.BOM, error)
	ListByProduct(productID string) ([]*entity.BOM, error)
	List(limit, offset int) ([]*entity.BOM, error)
	Deactivate(id string) error
}
