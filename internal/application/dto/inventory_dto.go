package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// RecordMovementRequest asiento manual en el ledger (MANUAL_IN / MANUAL_OUT).
type RecordMovementRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"` // siempre positiva; el tipo define el signo
	MovementType string          `json:"movement_type"`
	Reference    string          `json:"reference"`
	Notes        string          `json:"notes"`
}

// LedgerEntryResponse asiento del ledger expuesto por la API.
type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	QuantityChange  decimal.Decimal `json:"quantity_change"`
	StockBefore     decimal.Decimal `json:"stock_before"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	MovementType    string          `json:"movement_type"`
	Reference       string          `json:"reference,omitempty"`
	RelatedMOID     string          `json:"related_mo_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	TransactionTime time.Time       `json:"transaction_time"`
}

// ToLedgerEntryResponse mapea el asiento al DTO de salida.
func ToLedgerEntryResponse(e *entity.StockLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		QuantityChange:  e.QuantityChange,
		StockBefore:     e.StockBefore,
		StockAfter:      e.StockAfter,
		MovementType:    e.MovementType,
		Reference:       e.Reference,
		RelatedMOID:     e.RelatedMOID,
		Notes:           e.Notes,
		CreatedBy:       e.CreatedBy,
		TransactionTime: e.TransactionTime,
	}
}

// LedgerSummaryResponse totales por tipo de movimiento.
type LedgerSummaryResponse struct {
	MovementType  string          `json:"movement_type"`
	EntryCount    int64           `json:"entry_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// CreateAdjustmentRequest propuesta de ajuste de stock.
type CreateAdjustmentRequest struct {
	ProductID        string          `json:"product_id"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
	AdjustmentType   string          `json:"adjustment_type"`
	Reason           string          `json:"reason"`
}

// UpdateAdjustmentRequest corrección de un ajuste pendiente; los campos omitidos
// no cambian.
type UpdateAdjustmentRequest struct {
	ExpectedQuantity *decimal.Decimal `json:"expected_quantity"`
	ActualQuantity   *decimal.Decimal `json:"actual_quantity"`
	AdjustmentType   *string          `json:"adjustment_type"`
	Reason           *string          `json:"reason"`
}

// AdjustmentResponse ajuste expuesto por la API.
type AdjustmentResponse struct {
	ID                 string          `json:"id"`
	Number             string          `json:"number"`
	ProductID          string          `json:"product_id"`
	ExpectedQuantity   decimal.Decimal `json:"expected_quantity"`
	ActualQuantity     decimal.Decimal `json:"actual_quantity"`
	AdjustmentQuantity decimal.Decimal `json:"adjustment_quantity"`
	AdjustmentType     string          `json:"adjustment_type"`
	Reason             string          `json:"reason"`
	IsApproved         bool            `json:"is_approved"`
	ApprovedBy         string          `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToAdjustmentResponse mapea el ajuste al DTO de salida.
func ToAdjustmentResponse(a *entity.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:                 a.ID,
		Number:             a.Number,
		ProductID:          a.ProductID,
		ExpectedQuantity:   a.ExpectedQuantity,
		ActualQuantity:     a.ActualQuantity,
		AdjustmentQuantity: a.AdjustmentQuantity,
		AdjustmentType:     a.AdjustmentType,
		Reason:             a.Reason,
		IsApproved:         a.IsApproved,
		ApprovedBy:         a.ApprovedBy,
		ApprovedAt:         a.ApprovedAt,
		CreatedAt:          a.CreatedAt,
	}
}
