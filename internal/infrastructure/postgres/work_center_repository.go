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

var _ repository.WorkCenterRepository = (*WorkCenterRepo)(nil)

const workCenterColumns = `id, name, code, cost_per_hour, capacity, is_active, created_at, updated_at`

// WorkCenterRepo implementación de centros de trabajo sobre PostgreSQL.
type WorkCenterRepo struct {
	q Querier
}

// NewWorkCenterRepository construye el adaptador de centros de trabajo.
func NewWorkCenterRepository(q Querier) *WorkCenterRepo {
	return &WorkCenterRepo{q: q}
}

// Create persiste un centro de trabajo.
func (r *WorkCenterRepo) Create(wc *entity.WorkCenter) error {
	query := `
		INSERT INTO work_centers (` + workCenterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Code, wc.CostPerHour, wc.Capacity, wc.IsActive, wc.CreatedAt, wc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("work center code %s: %w", wc.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert work center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro por ID. Retorna (nil, nil) si no existe.
func (r *WorkCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers WHERE id = $1`
	var wc entity.WorkCenter
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&wc.ID, &wc.Name, &wc.Code, &wc.CostPerHour, &wc.Capacity, &wc.IsActive, &wc.CreatedAt, &wc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work center: %w", err)
	}
	return &wc, nil
}

// List centros de trabajo ordenados por código.
func (r *WorkCenterRepo) List(activeOnly bool) ([]*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list work centers: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkCenter
	for rows.Next() {
		var wc entity.WorkCenter
		if err := rows.Scan(&wc.ID, &wc.Name, &wc.Code, &wc.CostPerHour, &wc.Capacity,
			&wc.IsActive, &wc.CreatedAt, &wc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work center: %w", err)
		}
		list = append(list, &wc)
	}
	return list, rows.Err()
}

// Update persiste los cambios de un centro de trabajo.
func (r *WorkCenterRepo) Update(wc *entity.WorkCenter) error {
	query := `
		UPDATE work_centers SET
			name = $2, code = $3, cost_per_hour = $4, capacity = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Code, wc.CostPerHour, wc.Capacity, wc.IsActive, wc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("work center code %s: %w", wc.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("update work center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
