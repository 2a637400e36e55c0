package repository

import (
	"time"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
)

// StockLedgerRepository puerto de persistencia del ledger de stock (DIP).
// El ledger es append-only: no hay Update ni Delete, ni aquí ni en el storage.
type StockLedgerRepository interface {
	Create(entry *entity.StockLedgerEntry) error
	GetByID(id string) (*entity.StockLedgerEntry, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error)
	ListByMovementType(movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error)
	ListByMO(moID string) ([]*entity.StockLedgerEntry, error)
	Summary(from, to *time.Time) ([]*entity.LedgerSummaryLine, error)
}
