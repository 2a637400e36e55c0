package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

const adjustmentColumns = `id, number, product_id, expected_quantity, actual_quantity, adjustment_quantity, adjustment_type, reason, is_approved, approved_by, approved_at, created_by, created_at`

// StockAdjustmentRepo implementación de ajustes de stock sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador de ajustes.
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

// Create persiste un ajuste nuevo.
func (r *StockAdjustmentRepo) Create(a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Number, a.ProductID, a.ExpectedQuantity, a.ActualQuantity, a.AdjustmentQuantity,
		a.AdjustmentType, a.Reason, a.IsApproved, nullable(a.ApprovedBy), a.ApprovedAt,
		nullable(a.CreatedBy), a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("adjustment number %s: %w", a.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID. Retorna (nil, nil) si no existe.
func (r *StockAdjustmentRepo) GetByID(id string) (*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene un ajuste bloqueando su fila dentro de la transacción actual.
func (r *StockAdjustmentRepo) GetForUpdate(id string) (*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE id = $1 FOR UPDATE`
	a, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, mapConflict("lock adjustment", err)
	}
	return a, nil
}

// Update persiste los cambios de un ajuste (aprobación incluida).
func (r *StockAdjustmentRepo) Update(a *entity.StockAdjustment) error {
	query := `
		UPDATE stock_adjustments SET
			expected_quantity = $2, actual_quantity = $3, adjustment_quantity = $4,
			adjustment_type = $5, reason = $6, is_approved = $7, approved_by = $8, approved_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.ExpectedQuantity, a.ActualQuantity, a.AdjustmentQuantity,
		a.AdjustmentType, a.Reason, a.IsApproved, nullable(a.ApprovedBy), a.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un ajuste (solo se usa para rechazos de pendientes).
func (r *StockAdjustmentRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM stock_adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPending ajustes sin aprobar, más antiguos primero.
func (r *StockAdjustmentRepo) ListPending(limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments
		WHERE is_approved = false ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// LastNumberWithPrefix último número asignado con el prefijo dado ("" si ninguno).
// El orden lexicográfico funciona porque el sufijo tiene ancho fijo.
func (r *StockAdjustmentRepo) LastNumberWithPrefix(prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT number FROM stock_adjustments WHERE number LIKE $1 || '%' ORDER BY number DESC LIMIT 1`,
		prefix,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last adjustment number: %w", err)
	}
	return number, nil
}

func (r *StockAdjustmentRepo) scanOne(row pgx.Row) (*entity.StockAdjustment, error) {
	a, err := scanAdjustment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func scanAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var approvedBy, createdBy *string
	err := row.Scan(
		&a.ID, &a.Number, &a.ProductID, &a.ExpectedQuantity, &a.ActualQuantity,
		&a.AdjustmentQuantity, &a.AdjustmentType, &a.Reason, &a.IsApproved,
		&approvedBy, &a.ApprovedAt, &createdBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		a.ApprovedBy = *approvedBy
	}
	if createdBy != nil {
		a.CreatedBy = *createdBy
	}
	return &a, nil
}
