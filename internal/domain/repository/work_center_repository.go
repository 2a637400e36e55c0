package repository

import "github.com/ordio-mrp/ordio-api/internal/domain/entity"

// WorkCenterRepository puerto de persistencia para centros de trabajo (DIP).
type WorkCenterRepository interface {
	Create(wc *entity.WorkCenter) error
	GetByID(id string) (*entity.WorkCenter, error)
	List(activeOnly bool) ([]*entity.WorkCenter, error)
	Update(wc *entity.WorkCenter) error
}
