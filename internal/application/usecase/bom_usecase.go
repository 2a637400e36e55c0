package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// BOMUseCase catálogo de listas de materiales. Las MOs las leen como snapshot;
// aquí solo altas, consultas y desactivación.
type BOMUseCase struct {
	bomRepo     repository.BOMRepository
	productRepo repository.ProductRepository
	wcRepo      repository.WorkCenterRepository
}

// NewBOMUseCase construye el caso de uso de BOMs.
func NewBOMUseCase(
	bomRepo repository.BOMRepository,
	productRepo repository.ProductRepository,
	wcRepo repository.WorkCenterRepository,
) *BOMUseCase {
	return &BOMUseCase{bomRepo: bomRepo, productRepo: productRepo, wcRepo: wcRepo}
}

// BOMComponentInput componente de la receta.
type BOMComponentInput struct {
	ComponentID     string
	QuantityPerUnit decimal.Decimal
	Notes           string
}

// BOMOperationInput operación de la receta.
type BOMOperationInput struct {
	Name             string
	Sequence         int
	WorkCenterID     string
	DurationMinutes  int
	SetupTimeMinutes int
	Description      string
}

// CreateBOMInput entrada para crear una BOM completa.
type CreateBOMInput struct {
	ProductID   string
	Name        string
	Version     string
	Description string
	Components  []BOMComponentInput
	Operations  []BOMOperationInput
	CreatedBy   string
}

// Create valida y da de alta la BOM con sus componentes y operaciones. Si el
// producto ya tiene una BOM activa, la nueva la reemplaza (se desactiva la
// anterior): una sola BOM activa por producto.
func (uc *BOMUseCase) Create(ctx context.Context, input CreateBOMInput) (*entity.BOM, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if len(input.Components) == 0 {
		return nil, domain.NewValidationError("components", "una BOM requiere al menos un componente")
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ProductType != entity.ProductTypeFinishedGood {
		return nil, domain.NewValidationError("product_id", "solo un producto terminado puede tener BOM")
	}

	seen := make(map[string]bool, len(input.Components))
	for _, c := range input.Components {
		if c.QuantityPerUnit.Sign() <= 0 {
			return nil, domain.NewValidationError("components", "la cantidad por unidad debe ser positiva")
		}
		if seen[c.ComponentID] {
			return nil, domain.NewValidationError("components", "componente repetido: "+c.ComponentID)
		}
		seen[c.ComponentID] = true
		comp, err := uc.productRepo.GetByID(c.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.NewValidationError("components", "componente inexistente: "+c.ComponentID)
		}
	}
	seqs := make(map[int]bool, len(input.Operations))
	for _, op := range input.Operations {
		if op.Sequence <= 0 || op.DurationMinutes <= 0 {
			return nil, domain.NewValidationError("operations", "secuencia y duración deben ser positivas")
		}
		if seqs[op.Sequence] {
			return nil, domain.NewValidationError("operations", fmt.Sprintf("secuencia repetida: %d", op.Sequence))
		}
		seqs[op.Sequence] = true
		wc, err := uc.wcRepo.GetByID(op.WorkCenterID)
		if err != nil {
			return nil, err
		}
		if wc == nil {
			return nil, domain.NewValidationError("operations", "centro de trabajo inexistente: "+op.WorkCenterID)
		}
	}

	if active, err := uc.bomRepo.GetActiveByProduct(input.ProductID); err != nil {
		return nil, err
	} else if active != nil {
		if err := uc.bomRepo.Deactivate(active.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	version := input.Version
	if version == "" {
		version = "1.0"
	}
	bom := &entity.BOM{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		Name:        input.Name,
		Version:     version,
		IsActive:    true,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, c := range input.Components {
		bom.Components = append(bom.Components, entity.BOMComponent{
			ID:              uuid.New().String(),
			BOMID:           bom.ID,
			ComponentID:     c.ComponentID,
			QuantityPerUnit: c.QuantityPerUnit,
			Notes:           c.Notes,
		})
	}
	for _, op := range input.Operations {
		bom.Operations = append(bom.Operations, entity.BOMOperation{
			ID:               uuid.New().String(),
			BOMID:            bom.ID,
			Name:             op.Name,
			Sequence:         op.Sequence,
			WorkCenterID:     op.WorkCenterID,
			DurationMinutes:  op.DurationMinutes,
			SetupTimeMinutes: op.SetupTimeMinutes,
			Description:      op.Description,
		})
	}
	if err := uc.bomRepo.Create(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// GetByID BOM con componentes y operaciones.
func (uc *BOMUseCase) GetByID(ctx context.Context, id string) (*entity.BOM, error) {
	bom, err := uc.bomRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	return bom, nil
}

// List listado paginado de BOMs.
func (uc *BOMUseCase) List(ctx context.Context, limit, offset int) ([]*entity.BOM, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.bomRepo.List(limit, offset)
}

// BOMCostEstimate costo estimado de producir una cantidad con la receta:
// materiales a costo unitario actual más operaciones a tarifa del centro.
type BOMCostEstimate struct {
	BOMID         string
	Quantity      int
	MaterialCost  decimal.Decimal
	OperationCost decimal.Decimal
	TotalCost     decimal.Decimal
}

// EstimatedCost calcula el costo estimado de la BOM para la cantidad dada.
// Es una cotización sobre costos vigentes, no un costeo del lote ejecutado.
func (uc *BOMUseCase) EstimatedCost(ctx context.Context, bomID string, quantity int) (*BOMCostEstimate, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser positiva")
	}
	bom, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}

	qty := decimal.NewFromInt(int64(quantity))
	material := decimal.Zero
	for _, c := range bom.Components {
		comp, err := uc.productRepo.GetByID(c.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		material = material.Add(comp.UnitCost.Mul(c.QuantityPerUnit).Mul(qty))
	}

	operation := decimal.Zero
	for _, op := range bom.Operations {
		wc, err := uc.wcRepo.GetByID(op.WorkCenterID)
		if err != nil {
			return nil, err
		}
		if wc == nil {
			return nil, domain.ErrNotFound
		}
		operation = operation.Add(wc.OperationCost(op.TotalTimeMinutes(quantity)))
	}

	return &BOMCostEstimate{
		BOMID:         bom.ID,
		Quantity:      quantity,
		MaterialCost:  material,
		OperationCost: operation,
		TotalCost:     material.Add(operation),
	}, nil
}
