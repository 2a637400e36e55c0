package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// AdjustmentUseCase ciclo de vida de los ajustes de stock: creación pendiente,
// aprobación (que emite exactamente un asiento) y rechazo (borrado sin efecto en
// el ledger).
type AdjustmentUseCase struct {
	txRunner       TxRunner
	adjustmentRepo repository.StockAdjustmentRepository
	productRepo    repository.ProductRepository
}

// NewAdjustmentUseCase construye el caso de uso de ajustes.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	adjustmentRepo repository.StockAdjustmentRepository,
	productRepo repository.ProductRepository,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, adjustmentRepo: adjustmentRepo, productRepo: productRepo}
}

// CreateAdjustmentInput entrada para proponer un ajuste.
type CreateAdjustmentInput struct {
	ProductID        string
	ExpectedQuantity decimal.Decimal
	ActualQuantity   decimal.Decimal
	AdjustmentType   string
	Reason           string
	CreatedBy        string
}

// Create registra un ajuste pendiente. AdjustmentQuantity se deriva una sola vez
// aquí (actual - expected); recalcularla en updates es idempotente.
func (uc *AdjustmentUseCase) Create(ctx context.Context, input CreateAdjustmentInput) (*entity.StockAdjustment, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if !entity.ValidAdjustmentType(input.AdjustmentType) {
		return nil, domain.NewValidationError("adjustment_type", "tipo de ajuste desconocido: "+input.AdjustmentType)
	}
	if input.Reason == "" {
		return nil, domain.NewValidationError("reason", "todo ajuste requiere un motivo")
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	number, err := nextSequenceNumber(uc.adjustmentRepo.LastNumberWithPrefix, "ADJ", now)
	if err != nil {
		return nil, err
	}
	adj := &entity.StockAdjustment{
		ID:               uuid.New().String(),
		Number:           number,
		ProductID:        input.ProductID,
		ExpectedQuantity: input.ExpectedQuantity,
		ActualQuantity:   input.ActualQuantity,
		AdjustmentType:   input.AdjustmentType,
		Reason:           input.Reason,
		CreatedBy:        input.CreatedBy,
		CreatedAt:        now,
	}
	adj.Recalculate()
	if err := uc.adjustmentRepo.Create(adj); err != nil {
		return nil, err
	}
	return adj, nil
}

// UpdateAdjustmentInput corrección de un ajuste pendiente; los campos nil no cambian.
type UpdateAdjustmentInput struct {
	ExpectedQuantity *decimal.Decimal
	ActualQuantity   *decimal.Decimal
	AdjustmentType   *string
	Reason           *string
}

// Update corrige un ajuste pendiente y re-deriva AdjustmentQuantity, bajo lock de
// fila en la misma transacción: una aprobación concurrente se serializa antes del
// chequeo. Un ajuste aprobado es historial inmutable y no se edita.
func (uc *AdjustmentUseCase) Update(ctx context.Context, adjustmentID string, input UpdateAdjustmentInput) (*entity.StockAdjustment, error) {
	var adj *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error {
		var err error
		adj, err = adjustmentRepo.GetForUpdate(adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if adj.IsApproved {
			return domain.NewValidationError("adjustment", "un ajuste aprobado no puede editarse")
		}
		if input.ExpectedQuantity != nil {
			adj.ExpectedQuantity = *input.ExpectedQuantity
		}
		if input.ActualQuantity != nil {
			adj.ActualQuantity = *input.ActualQuantity
		}
		if input.AdjustmentType != nil {
			if !entity.ValidAdjustmentType(*input.AdjustmentType) {
				return domain.NewValidationError("adjustment_type", "tipo de ajuste desconocido: "+*input.AdjustmentType)
			}
			adj.AdjustmentType = *input.AdjustmentType
		}
		if input.Reason != nil {
			if *input.Reason == "" {
				return domain.NewValidationError("reason", "todo ajuste requiere un motivo")
			}
			adj.Reason = *input.Reason
		}
		adj.Recalculate()
		return adjustmentRepo.Update(adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// Approve aprueba el ajuste en una sola transacción: asiento ADJUSTMENT en el ledger
// referenciando el número del ajuste y marca de aprobación con aprobador/fecha.
// Si el asiento falla, el ajuste no cambia. Aprobar dos veces falla con
// ValidationError y no produce un segundo asiento.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, adjustmentID, approverID string) (*entity.StockLedgerEntry, error) {
	var entry *entity.StockLedgerEntry
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		productRepo repository.ProductRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error {
		// Bloquea la fila del ajuste: dos aprobaciones concurrentes se serializan aquí
		adj, err := adjustmentRepo.GetForUpdate(adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if adj.IsApproved {
			return domain.NewValidationError("adjustment", "el ajuste ya fue aprobado")
		}

		now := time.Now()
		entry, err = RecordInTx(ledgerRepo, productRepo, RecordInput{
			ProductID:      adj.ProductID,
			QuantityChange: adj.AdjustmentQuantity,
			MovementType:   entity.MovementTypeAdjustment,
			Reference:      adj.Number,
			Notes:          "Ajuste: " + adj.Reason,
			CreatedBy:      approverID,
		}, now)
		if err != nil {
			return err
		}

		adj.IsApproved = true
		adj.ApprovedBy = approverID
		adj.ApprovedAt = &now
		return adjustmentRepo.Update(adj)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Reject elimina un ajuste pendiente sin tocar el ledger, bajo lock de fila en la
// misma transacción que el borrado (el chequeo de aprobación no puede quedarse
// obsoleto frente a un Approve concurrente). Un ajuste aprobado es historial
// inmutable y no puede rechazarse.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, adjustmentID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error {
		adj, err := adjustmentRepo.GetForUpdate(adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if adj.IsApproved {
			return domain.NewValidationError("adjustment", "un ajuste aprobado no puede rechazarse")
		}
		return adjustmentRepo.Delete(adjustmentID)
	})
}

// ListPending ajustes pendientes de revisión.
func (uc *AdjustmentUseCase) ListPending(ctx context.Context, limit, offset int) ([]*entity.StockAdjustment, error) {
	return uc.adjustmentRepo.ListPending(normalizeLimit(limit), offset)
}

// nextSequenceNumber genera el siguiente número consecutivo con prefijo y período
// (ej. ADJ2026090001): busca el último número existente del mes y suma uno.
func nextSequenceNumber(lastWithPrefix func(string) (string, error), prefix string, now time.Time) (string, error) {
	period := prefix + now.Format("200601")
	last, err := lastWithPrefix(period)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" && len(last) >= 4 {
		if n, convErr := strconv.Atoi(last[len(last)-4:]); convErr == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", period, seq), nil
}
