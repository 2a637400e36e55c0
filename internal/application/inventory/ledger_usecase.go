package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// LedgerUseCase escribe y consulta el ledger de stock. Toda mutación de
// current_stock pasa por aquí: transacción + bloqueo de fila del producto
// (SELECT FOR UPDATE) + asiento + write-back, con Commit/Rollback atómico.
type LedgerUseCase struct {
	txRunner   TxRunner
	ledgerRepo repository.StockLedgerRepository
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(txRunner TxRunner, ledgerRepo repository.StockLedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, ledgerRepo: ledgerRepo}
}

// RecordInput entrada para registrar un asiento de stock.
type RecordInput struct {
	ProductID      string
	QuantityChange decimal.Decimal
	MovementType   string
	Reference      string
	RelatedMOID    string
	Notes          string
	CreatedBy      string
}

// Record bloquea la fila del producto, calcula stock_before/stock_after, persiste el
// asiento y escribe current_stock, todo en una transacción. No rechaza stock negativo
// resultante (piso blando): el preflight de suficiencia es responsabilidad del caller;
// un ajuste manual puede dejar stock negativo para corregirse después.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*entity.StockLedgerEntry, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if input.QuantityChange.IsZero() {
		return nil, domain.NewValidationError("quantity_change", "no puede ser cero")
	}
	if !entity.ValidMovementType(input.MovementType) {
		return nil, domain.NewValidationError("movement_type", "tipo de movimiento desconocido: "+input.MovementType)
	}

	var entry *entity.StockLedgerEntry
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		productRepo repository.ProductRepository,
		_ repository.StockAdjustmentRepository,
	) error {
		var err error
		entry, err = RecordInTx(ledgerRepo, productRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordInTx ejecuta el protocolo del ledger con los repositorios del caller (misma
// transacción). Lo usa Record y también el orquestador de fabricación, que necesita
// varios asientos bajo una sola tx.
func RecordInTx(
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	input RecordInput,
	now time.Time,
) (*entity.StockLedgerEntry, error) {
	// Bloquea la fila del producto: serializa escritores concurrentes sobre el mismo producto
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	before := product.CurrentStock
	after := before.Add(input.QuantityChange)

	entry := &entity.StockLedgerEntry{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		QuantityChange:  input.QuantityChange,
		StockBefore:     before,
		StockAfter:      after,
		MovementType:    input.MovementType,
		Reference:       input.Reference,
		RelatedMOID:     input.RelatedMOID,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
		TransactionTime: now,
	}
	if !entry.CheckBalance() {
		return nil, &domain.InvariantViolationError{
			Invariant: "ledger-balance",
			Detail:    "stock_after != stock_before + quantity_change en " + input.ProductID,
		}
	}
	if err := ledgerRepo.Create(entry); err != nil {
		return nil, err
	}
	// Write-back del cache: única ruta de escritura de current_stock
	if err := productRepo.UpdateCurrentStock(input.ProductID, after); err != nil {
		return nil, err
	}
	return entry, nil
}

// History historial de asientos de un producto, más reciente primero.
func (uc *LedgerUseCase) History(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	return uc.ledgerRepo.ListByProduct(productID, from, to, normalizeLimit(limit), offset)
}

// ListByMovementType asientos filtrados por tipo de movimiento.
func (uc *LedgerUseCase) ListByMovementType(ctx context.Context, movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	if !entity.ValidMovementType(movementType) {
		return nil, domain.NewValidationError("movement_type", "tipo de movimiento desconocido: "+movementType)
	}
	return uc.ledgerRepo.ListByMovementType(movementType, from, to, normalizeLimit(limit), offset)
}

// Summary totales por tipo de movimiento en un rango de fechas.
func (uc *LedgerUseCase) Summary(ctx context.Context, from, to *time.Time) ([]*entity.LedgerSummaryLine, error) {
	return uc.ledgerRepo.Summary(from, to)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}
