package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordio-mrp/ordio-api/internal/application/usecase"
	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes de catálogo en memoria
// ─────────────────────────────────────────────────────────────────────────────

type catalogStore struct {
	products map[string]*entity.Product
	boms     map[string]*entity.BOM
	wcs      map[string]*entity.WorkCenter
}

func newCatalogStore() *catalogStore {
	return &catalogStore{
		products: make(map[string]*entity.Product),
		boms:     make(map[string]*entity.BOM),
		wcs:      make(map[string]*entity.WorkCenter),
	}
}

type catBOMRepo struct{ s *catalogStore }

var _ repository.BOMRepository = (*catBOMRepo)(nil)

func (r *catBOMRepo) Create(bom *entity.BOM) error {
	cp := *bom
	r.s.boms[bom.ID] = &cp
	return nil
}

func (r *catBOMRepo) GetByID(id string) (*entity.BOM, error) {
	b, ok := r.s.boms[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *catBOMRepo) GetActiveByProduct(productID string) (*entity.BOM, error) {
	for _, b := range r.s.boms {
		if b.ProductID == productID && b.IsActive {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *catBOMRepo) ListByProduct(productID string) ([]*entity.BOM, error) {
	var out []*entity.BOM
	for _, b := range r.s.boms {
		if b.ProductID == productID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *catBOMRepo) List(limit, offset int) ([]*entity.BOM, error) {
	var out []*entity.BOM
	for _, b := range r.s.boms {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *catBOMRepo) Deactivate(id string) error {
	if b, ok := r.s.boms[id]; ok {
		b.IsActive = false
	}
	return nil
}

type catProductRepo struct{ s *catalogStore }

var _ repository.ProductRepository = (*catProductRepo)(nil)

func (r *catProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *catProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *catProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *catProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *catProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *catProductRepo) UpdateCurrentStock(productID string, stock decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.CurrentStock = stock
	}
	return nil
}

func (r *catProductRepo) List(productType string, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *catProductRepo) ListLowStock() ([]*entity.Product, error) { return nil, nil }

type catWCRepo struct{ s *catalogStore }

var _ repository.WorkCenterRepository = (*catWCRepo)(nil)

func (r *catWCRepo) Create(wc *entity.WorkCenter) error {
	cp := *wc
	r.s.wcs[wc.ID] = &cp
	return nil
}

func (r *catWCRepo) GetByID(id string) (*entity.WorkCenter, error) {
	wc, ok := r.s.wcs[id]
	if !ok {
		return nil, nil
	}
	cp := *wc
	return &cp, nil
}

func (r *catWCRepo) List(activeOnly bool) ([]*entity.WorkCenter, error) { return nil, nil }

func (r *catWCRepo) Update(wc *entity.WorkCenter) error {
	cp := *wc
	r.s.wcs[wc.ID] = &cp
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────────────────────────────────────

func newBOMFixture(t *testing.T) (*usecase.BOMUseCase, *catalogStore) {
	t.Helper()
	s := newCatalogStore()
	s.products["fg-mesa"] = &entity.Product{
		ID: "fg-mesa", SKU: "MESA-01", Name: "Mesa plegable",
		ProductType: entity.ProductTypeFinishedGood, IsActive: true,
	}
	s.products["c-tornillo"] = &entity.Product{
		ID: "c-tornillo", SKU: "TOR-M4", Name: "Tornillo M4",
		ProductType: entity.ProductTypeRawMaterial, IsActive: true,
		UnitCost: decimal.RequireFromString("0.50"),
	}
	s.products["c-arandela"] = &entity.Product{
		ID: "c-arandela", SKU: "ARA-01", Name: "Arandela plana",
		ProductType: entity.ProductTypeRawMaterial, IsActive: true,
		UnitCost: decimal.RequireFromString("0.25"),
	}
	s.wcs["wc-corte"] = &entity.WorkCenter{
		ID: "wc-corte", Name: "Corte", Code: "CORTE",
		CostPerHour: decimal.NewFromInt(60), IsActive: true,
	}
	s.wcs["wc-ensamble"] = &entity.WorkCenter{
		ID: "wc-ensamble", Name: "Ensamble", Code: "ENS",
		CostPerHour: decimal.NewFromInt(40), IsActive: true,
	}
	uc := usecase.NewBOMUseCase(&catBOMRepo{s}, &catProductRepo{s}, &catWCRepo{s})
	return uc, s
}

func createMesaBOM(t *testing.T, uc *usecase.BOMUseCase) *entity.BOM {
	t.Helper()
	bom, err := uc.Create(context.Background(), usecase.CreateBOMInput{
		ProductID: "fg-mesa",
		Name:      "Mesa plegable v1",
		Components: []usecase.BOMComponentInput{
			{ComponentID: "c-tornillo", QuantityPerUnit: decimal.NewFromInt(2)},
			{ComponentID: "c-arandela", QuantityPerUnit: decimal.RequireFromString("0.5")},
		},
		Operations: []usecase.BOMOperationInput{
			{Name: "Corte", Sequence: 1, WorkCenterID: "wc-corte", DurationMinutes: 5, SetupTimeMinutes: 30},
			{Name: "Ensamble", Sequence: 2, WorkCenterID: "wc-ensamble", DurationMinutes: 3},
		},
		CreatedBy: "user-1",
	})
	require.NoError(t, err)
	return bom
}

// ─────────────────────────────────────────────────────────────────────────────
// Costo estimado
// ─────────────────────────────────────────────────────────────────────────────

// Materiales: 2 tornillos a $0.50 y media arandela a $0.25 por mesa; operaciones:
// corte con setup fijo de 30 min a $60/h y ensamble a $40/h.
func TestEstimatedCost_MaterialesMasOperaciones(t *testing.T) {
	uc, _ := newBOMFixture(t)
	bom := createMesaBOM(t, uc)

	est, err := uc.EstimatedCost(context.Background(), bom.ID, 10)
	require.NoError(t, err)

	// Materiales: 0.50×2×10 + 0.25×0.5×10 = 11.25
	assert.True(t, est.MaterialCost.Equal(decimal.RequireFromString("11.25")), "material: %s", est.MaterialCost)
	// Operaciones: (5×10+30) min a $60/h = 80; 3×10 min a $40/h = 20.
	assert.True(t, est.OperationCost.Equal(decimal.NewFromInt(100)), "operación: %s", est.OperationCost)
	assert.True(t, est.TotalCost.Equal(decimal.RequireFromString("111.25")), "total: %s", est.TotalCost)
	assert.Equal(t, 10, est.Quantity)
}

// El setup es por lote, no por unidad: duplicar la cantidad no duplica el costo
// de operación del corte.
func TestEstimatedCost_SetupNoEscalaConLaCantidad(t *testing.T) {
	uc, _ := newBOMFixture(t)
	bom := createMesaBOM(t, uc)

	uno, err := uc.EstimatedCost(context.Background(), bom.ID, 1)
	require.NoError(t, err)
	dos, err := uc.EstimatedCost(context.Background(), bom.ID, 2)
	require.NoError(t, err)

	// Corte: 35 min vs 40 min; ensamble: 3 vs 6. El doble de unidades no dobla el costo.
	assert.True(t, dos.OperationCost.LessThan(uno.OperationCost.Mul(decimal.NewFromInt(2))))
	assert.True(t, dos.MaterialCost.Equal(uno.MaterialCost.Mul(decimal.NewFromInt(2))))
}

func TestEstimatedCost_Validaciones(t *testing.T) {
	uc, _ := newBOMFixture(t)
	bom := createMesaBOM(t, uc)

	_, err := uc.EstimatedCost(context.Background(), bom.ID, 0)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, err = uc.EstimatedCost(context.Background(), "bom-fantasma", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
