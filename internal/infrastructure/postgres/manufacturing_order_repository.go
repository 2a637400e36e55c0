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

var (
	_ repository.ManufacturingOrderRepository   = (*ManufacturingOrderRepo)(nil)
	_ repository.ComponentRequirementRepository = (*ComponentRequirementRepo)(nil)
)

const moColumns = `id, number, product_id, bom_id, quantity_to_produce, quantity_produced, status, priority, scheduled_start_date, scheduled_end_date, actual_start_date, completion_date, assignee_id, notes, created_by, created_at, updated_at`

// ManufacturingOrderRepo implementación de órdenes de fabricación sobre PostgreSQL.
// Devuelve solo la cabecera; requerimientos y órdenes de trabajo se cargan desde
// sus propios repositorios cuando el caso de uso los necesita.
type ManufacturingOrderRepo struct {
	q Querier
}

// NewManufacturingOrderRepository construye el adaptador de MOs.
func NewManufacturingOrderRepository(q Querier) *ManufacturingOrderRepo {
	return &ManufacturingOrderRepo{q: q}
}

// Create persiste una orden de fabricación.
func (r *ManufacturingOrderRepo) Create(mo *entity.ManufacturingOrder) error {
	query := `
		INSERT INTO manufacturing_orders (` + moColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.Number, mo.ProductID, mo.BOMID, mo.QuantityToProduce, mo.QuantityProduced,
		mo.Status, mo.Priority, mo.ScheduledStartDate, mo.ScheduledEndDate,
		mo.ActualStartDate, mo.CompletionDate, nullable(mo.AssigneeID), mo.Notes,
		nullable(mo.CreatedBy), mo.CreatedAt, mo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number %s: %w", mo.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert manufacturing order: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una orden por ID. Retorna (nil, nil) si no existe.
func (r *ManufacturingOrderRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene una orden bloqueando su fila dentro de la transacción
// actual. Todas las transiciones de estado pasan por aquí.
func (r *ManufacturingOrderRepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1 FOR UPDATE`
	mo, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, mapConflict("lock manufacturing order", err)
	}
	return mo, nil
}

// Update persiste los cambios de una orden.
func (r *ManufacturingOrderRepo) Update(mo *entity.ManufacturingOrder) error {
	query := `
		UPDATE manufacturing_orders SET
			quantity_to_produce = $2, quantity_produced = $3, status = $4, priority = $5,
			scheduled_start_date = $6, scheduled_end_date = $7, actual_start_date = $8,
			completion_date = $9, assignee_id = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.QuantityToProduce, mo.QuantityProduced, mo.Status, mo.Priority,
		mo.ScheduledStartDate, mo.ScheduledEndDate, mo.ActualStartDate,
		mo.CompletionDate, nullable(mo.AssigneeID), mo.Notes, mo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manufacturing order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una orden. Requerimientos y órdenes de trabajo caen por FK en
// cascada.
func (r *ManufacturingOrderRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM manufacturing_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manufacturing order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List órdenes paginadas, opcionalmente filtradas por estado, más reciente primero.
func (r *ManufacturingOrderRepo) List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ManufacturingOrder
	for rows.Next() {
		mo, err := scanMO(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, mo)
	}
	return list, rows.Err()
}

// LastNumberWithPrefix último número asignado con el prefijo dado ("" si ninguno).
func (r *ManufacturingOrderRepo) LastNumberWithPrefix(prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT number FROM manufacturing_orders WHERE number LIKE $1 || '%' ORDER BY number DESC LIMIT 1`,
		prefix,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return number, nil
}

func (r *ManufacturingOrderRepo) scanOne(row pgx.Row) (*entity.ManufacturingOrder, error) {
	mo, err := scanMO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return mo, nil
}

func scanMO(row pgx.Row) (*entity.ManufacturingOrder, error) {
	var mo entity.ManufacturingOrder
	var assignee, createdBy *string
	err := row.Scan(
		&mo.ID, &mo.Number, &mo.ProductID, &mo.BOMID, &mo.QuantityToProduce, &mo.QuantityProduced,
		&mo.Status, &mo.Priority, &mo.ScheduledStartDate, &mo.ScheduledEndDate,
		&mo.ActualStartDate, &mo.CompletionDate, &assignee, &mo.Notes,
		&createdBy, &mo.CreatedAt, &mo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignee != nil {
		mo.AssigneeID = *assignee
	}
	if createdBy != nil {
		mo.CreatedBy = *createdBy
	}
	return &mo, nil
}

// ComponentRequirementRepo implementación de requerimientos de componentes.
type ComponentRequirementRepo struct {
	q Querier
}

// NewComponentRequirementRepository construye el adaptador de requerimientos.
func NewComponentRequirementRepository(q Querier) *ComponentRequirementRepo {
	return &ComponentRequirementRepo{q: q}
}

// Create persiste un requerimiento.
func (r *ComponentRequirementRepo) Create(req *entity.ComponentRequirement) error {
	query := `
		INSERT INTO component_requirements (id, mo_id, component_id, quantity_per_unit, required_quantity, consumed_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.MOID, req.ComponentID, req.QuantityPerUnit,
		req.RequiredQuantity, req.ConsumedQuantity, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("component %s repeated in order: %w", req.ComponentID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert component requirement: %w", err)
	}
	return nil
}

// ListByMO requerimientos de una orden, ordenados por componente para que el
// bloqueo de filas siga siempre el mismo orden.
func (r *ComponentRequirementRepo) ListByMO(moID string) ([]*entity.ComponentRequirement, error) {
	query := `
		SELECT id, mo_id, component_id, quantity_per_unit, required_quantity, consumed_quantity, created_at, updated_at
		FROM component_requirements WHERE mo_id = $1 ORDER BY component_id`
	rows, err := r.q.Query(context.Background(), query, moID)
	if err != nil {
		return nil, fmt.Errorf("list component requirements: %w", err)
	}
	defer rows.Close()
	var list []*entity.ComponentRequirement
	for rows.Next() {
		var req entity.ComponentRequirement
		if err := rows.Scan(&req.ID, &req.MOID, &req.ComponentID, &req.QuantityPerUnit,
			&req.RequiredQuantity, &req.ConsumedQuantity, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan component requirement: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

// UpdateConsumed persiste la cantidad consumida de un requerimiento.
func (r *ComponentRequirementRepo) UpdateConsumed(req *entity.ComponentRequirement) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE component_requirements SET consumed_quantity = $2, updated_at = $3 WHERE id = $1`,
		req.ID, req.ConsumedQuantity, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update consumed quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByMO elimina los requerimientos de una orden.
func (r *ComponentRequirementRepo) DeleteByMO(moID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM component_requirements WHERE mo_id = $1`, moID)
	if err != nil {
		return fmt.Errorf("delete component requirements: %w", err)
	}
	return nil
}
