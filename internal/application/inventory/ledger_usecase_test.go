package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

func newLedgerFixture() (*inventory.LedgerUseCase, *memStore) {
	s := newMemStore()
	return inventory.NewLedgerUseCase(&memTxRunner{s}, &memLedgerRepo{s}), s
}

func seedProduct(s *memStore, id string, stock float64) *entity.Product {
	p := &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		ProductType:  entity.ProductTypeRawMaterial,
		CurrentStock: decimal.NewFromFloat(stock),
		IsActive:     true,
	}
	s.products[id] = p
	return p
}

// Cada asiento captura el stock vigente como stock_before y el caché del producto
// queda igual al stock_after del último asiento.
func TestRecord_EncadenaAsientosYActualizaStock(t *testing.T) {
	uc, s := newLedgerFixture()
	seedProduct(s, "p1", 10)

	first, err := uc.Record(context.Background(), inventory.RecordInput{
		ProductID:      "p1",
		QuantityChange: decimal.NewFromFloat(5),
		MovementType:   entity.MovementTypeManualIn,
		CreatedBy:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, first.StockBefore.Equal(decimal.NewFromFloat(10)))
	assert.True(t, first.StockAfter.Equal(decimal.NewFromFloat(15)))
	assert.True(t, first.CheckBalance())
	assert.True(t, s.products["p1"].CurrentStock.Equal(decimal.NewFromFloat(15)))

	second, err := uc.Record(context.Background(), inventory.RecordInput{
		ProductID:      "p1",
		QuantityChange: decimal.NewFromFloat(-3),
		MovementType:   entity.MovementTypeManualOut,
		CreatedBy:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, second.StockBefore.Equal(first.StockAfter), "el segundo asiento encadena sobre el primero")
	assert.True(t, second.StockAfter.Equal(decimal.NewFromFloat(12)))
	assert.Len(t, s.ledger, 2)
}

// El ledger no impone piso de stock: una salida mayor al disponible queda registrada
// con stock_after negativo (la suficiencia es un preflight del caller).
func TestRecord_PermiteStockNegativo(t *testing.T) {
	uc, s := newLedgerFixture()
	seedProduct(s, "p1", 4)

	entry, err := uc.Record(context.Background(), inventory.RecordInput{
		ProductID:      "p1",
		QuantityChange: decimal.NewFromFloat(-10),
		MovementType:   entity.MovementTypeManualOut,
	})
	require.NoError(t, err)
	assert.True(t, entry.StockAfter.Equal(decimal.NewFromFloat(-6)))
	assert.True(t, s.products["p1"].CurrentStock.IsNegative())
}

func TestRecord_Validaciones(t *testing.T) {
	uc, s := newLedgerFixture()
	seedProduct(s, "p1", 10)
	var verr *domain.ValidationError

	_, err := uc.Record(context.Background(), inventory.RecordInput{
		QuantityChange: decimal.NewFromFloat(1),
		MovementType:   entity.MovementTypeManualIn,
	})
	require.ErrorAs(t, err, &verr, "product_id requerido")

	_, err = uc.Record(context.Background(), inventory.RecordInput{
		ProductID:    "p1",
		MovementType: entity.MovementTypeManualIn,
	})
	require.ErrorAs(t, err, &verr, "cantidad cero rechazada")

	_, err = uc.Record(context.Background(), inventory.RecordInput{
		ProductID:      "p1",
		QuantityChange: decimal.NewFromFloat(1),
		MovementType:   "TELEPORT",
	})
	require.ErrorAs(t, err, &verr, "tipo de movimiento desconocido")

	_, err = uc.Record(context.Background(), inventory.RecordInput{
		ProductID:      "ghost",
		QuantityChange: decimal.NewFromFloat(1),
		MovementType:   entity.MovementTypeManualIn,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, s.ledger, "ninguna validación fallida deja asiento")
}

func TestListByMovementType_RechazaTipoDesconocido(t *testing.T) {
	uc, _ := newLedgerFixture()
	var verr *domain.ValidationError
	_, err := uc.ListByMovementType(context.Background(), "NOPE", nil, nil, 10, 0)
	require.ErrorAs(t, err, &verr)
}
