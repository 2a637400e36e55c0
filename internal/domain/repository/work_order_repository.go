package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// WorkOrderRepository puerto de persistencia para órdenes de trabajo (DIP).
type WorkOrderRepository interface {
	Create(wo *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	GetForUpdate(id string) (*entity.WorkOrder, error)
	Update(wo *entity.WorkOrder) error
	ListByMO(moID string) ([]*entity.WorkOrder, error)
	CountNonTerminalByMO(moID string) (int, error)
	DeleteByMO(moID string) error
}

// WorkOrderEventRepository puerto para la traza de auditoría de una orden de
// trabajo. Append-only: solo Create y lectura ordenada.
type WorkOrderEventRepository interface {
	Create(event *entity.WorkOrderEvent) error
	ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderEvent, error)
}
