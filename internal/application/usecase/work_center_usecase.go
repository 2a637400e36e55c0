package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// WorkCenterUseCase catálogo de centros de trabajo.
type WorkCenterUseCase struct {
	wcRepo repository.WorkCenterRepository
}

// NewWorkCenterUseCase construye el caso de uso de centros de trabajo.
func NewWorkCenterUseCase(wcRepo repository.WorkCenterRepository) *WorkCenterUseCase {
	return &WorkCenterUseCase{wcRepo: wcRepo}
}

// CreateWorkCenterInput entrada para crear un centro de trabajo.
type CreateWorkCenterInput struct {
	Name        string
	Code        string
	CostPerHour decimal.Decimal
	Capacity    int
}

// Create da de alta un centro de trabajo.
func (uc *WorkCenterUseCase) Create(ctx context.Context, input CreateWorkCenterInput) (*entity.WorkCenter, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if input.CostPerHour.Sign() < 0 {
		return nil, domain.NewValidationError("cost_per_hour", "no puede ser negativo")
	}
	capacity := input.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	now := time.Now()
	wc := &entity.WorkCenter{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Code:        input.Code,
		CostPerHour: input.CostPerHour,
		Capacity:    capacity,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.wcRepo.Create(wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// GetByID centro de trabajo por ID.
func (uc *WorkCenterUseCase) GetByID(ctx context.Context, id string) (*entity.WorkCenter, error) {
	wc, err := uc.wcRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	return wc, nil
}

// List centros de trabajo (activos o todos).
func (uc *WorkCenterUseCase) List(ctx context.Context, activeOnly bool) ([]*entity.WorkCenter, error) {
	return uc.wcRepo.List(activeOnly)
}
