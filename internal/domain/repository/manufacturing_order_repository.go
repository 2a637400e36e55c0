package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// ManufacturingOrderRepository puerto de persistencia para órdenes de fabricación (DIP).
type ManufacturingOrderRepository interface {
	Create(mo *entity.ManufacturingOrder) error
	GetByID(id string) (*entity.ManufacturingOrder, error)
	GetForUpdate(id string) (*entity.ManufacturingOrder, error)
	Update(mo *entity.ManufacturingOrder) error
	Delete(id string) error // cascada: requerimientos y órdenes de trabajo
	List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error)
	LastNumberWithPrefix(prefix string) (string, error)
}

// ComponentRequirementRepository puerto para los requerimientos de componentes de
// una MO (una fila por par MO-componente).
type ComponentRequirementRepository interface {
	Create(req *entity.ComponentRequirement) error
	ListByMO(moID string) ([]*entity.ComponentRequirement, error)
	UpdateConsumed(req *entity.ComponentRequirement) error
	DeleteByMO(moID string) error
}
