package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

const ledgerColumns = `id, product_id, quantity_change, stock_before, stock_after, movement_type, reference, related_mo_id, notes, created_by, transaction_time`

// StockLedgerRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: la tabla tiene un trigger que rechaza UPDATE y DELETE, así
// la inmutabilidad no depende del código de aplicación.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Create persiste un asiento del ledger.
func (r *StockLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.QuantityChange, entry.StockBefore, entry.StockAfter,
		entry.MovementType, entry.Reference, nullable(entry.RelatedMOID), entry.Notes,
		nullable(entry.CreatedBy), entry.TransactionTime,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockLedgerRepo) GetByID(id string) (*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	var e entity.StockLedgerEntry
	var relatedMO, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ProductID, &e.QuantityChange, &e.StockBefore, &e.StockAfter,
		&e.MovementType, &e.Reference, &relatedMO, &e.Notes, &createdBy, &e.TransactionTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	if relatedMO != nil {
		e.RelatedMOID = *relatedMO
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}

// ListByProduct historial de un producto en un rango de fechas, más reciente primero.
func (r *StockLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY transaction_time DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.scanMany(query, args...)
}

// ListByMovementType asientos de un tipo de movimiento en un rango de fechas.
func (r *StockLedgerRepo) ListByMovementType(movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE movement_type = $1`
	args := []any{movementType}
	query, args = appendDateRange(query, args, from, to)
	query += fmt.Sprintf(" ORDER BY transaction_time DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.scanMany(query, args...)
}

// ListByMO asientos ligados a una orden de fabricación, en orden de inserción.
func (r *StockLedgerRepo) ListByMO(moID string) ([]*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE related_mo_id = $1 ORDER BY transaction_time`
	return r.scanMany(query, moID)
}

// Summary totales por tipo de movimiento en un rango de fechas.
func (r *StockLedgerRepo) Summary(from, to *time.Time) ([]*entity.LedgerSummaryLine, error) {
	query := `
		SELECT movement_type, count(*), coalesce(sum(quantity_change), 0)
		FROM stock_ledger WHERE 1=1`
	args := []any{}
	query, args = appendDateRange(query, args, from, to)
	query += " GROUP BY movement_type ORDER BY movement_type"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger summary: %w", err)
	}
	defer rows.Close()
	var lines []*entity.LedgerSummaryLine
	for rows.Next() {
		var l entity.LedgerSummaryLine
		if err := rows.Scan(&l.MovementType, &l.EntryCount, &l.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *StockLedgerRepo) scanMany(query string, args ...any) ([]*entity.StockLedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		var relatedMO, createdBy *string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QuantityChange, &e.StockBefore, &e.StockAfter,
			&e.MovementType, &e.Reference, &relatedMO, &e.Notes, &createdBy, &e.TransactionTime); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if relatedMO != nil {
			e.RelatedMOID = *relatedMO
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// appendDateRange agrega filtros de fecha con placeholders consecutivos.
func appendDateRange(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		query += fmt.Sprintf(" AND transaction_time >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND transaction_time <= $%d", len(args)+1)
		args = append(args, *to)
	}
	return query, args
}
