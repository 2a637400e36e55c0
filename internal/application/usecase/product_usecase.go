package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos (materias primas y terminados). Sin lógica
// de concurrencia propia: el stock lo gobierna el ledger; aquí solo se dispara la
// carga inicial como asiento INITIAL_STOCK.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	ledgerUC    *inventory.LedgerUseCase
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(productRepo repository.ProductRepository, ledgerUC *inventory.LedgerUseCase) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, ledgerUC: ledgerUC}
}

// CreateProductInput entrada para crear un producto.
type CreateProductInput struct {
	SKU           string
	Name          string
	ProductType   string
	InitialStock  decimal.Decimal
	MinimumStock  decimal.Decimal
	UnitOfMeasure string
	UnitCost      decimal.Decimal
	Description   string
	CreatedBy     string
}

// Create da de alta el producto con stock cero y, si viene stock inicial, lo
// registra como asiento INITIAL_STOCK en el ledger (única ruta de escritura de
// current_stock).
func (uc *ProductUseCase) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.SKU == "" {
		return nil, domain.NewValidationError("sku", "requerido")
	}
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	switch input.ProductType {
	case entity.ProductTypeRawMaterial, entity.ProductTypeFinishedGood:
	default:
		return nil, domain.NewValidationError("product_type", "tipo de producto desconocido: "+input.ProductType)
	}
	if input.InitialStock.Sign() < 0 {
		return nil, domain.NewValidationError("initial_stock", "no puede ser negativo")
	}

	now := time.Now()
	uom := input.UnitOfMeasure
	if uom == "" {
		uom = "units"
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           input.SKU,
		Name:          input.Name,
		ProductType:   input.ProductType,
		CurrentStock:  decimal.Zero,
		MinimumStock:  input.MinimumStock,
		UnitOfMeasure: uom,
		UnitCost:      input.UnitCost,
		Description:   input.Description,
		IsActive:      true,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	if input.InitialStock.Sign() > 0 {
		entry, err := uc.ledgerUC.Record(ctx, inventory.RecordInput{
			ProductID:      product.ID,
			QuantityChange: input.InitialStock,
			MovementType:   entity.MovementTypeInitialStock,
			Reference:      "alta de producto " + product.SKU,
			CreatedBy:      input.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		product.CurrentStock = entry.StockAfter
	}
	return product, nil
}

// GetByID producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// Update actualiza los campos de catálogo. CurrentStock nunca se toca por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, product *entity.Product) error {
	existing, err := uc.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	product.CurrentStock = existing.CurrentStock
	product.UpdatedAt = time.Now()
	return uc.productRepo.Update(product)
}

// List productos filtrados por tipo (vacío = todos).
func (uc *ProductUseCase) List(ctx context.Context, productType string, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.productRepo.List(productType, activeOnly, limit, offset)
}

// ListLowStock productos en o por debajo de su stock mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}
