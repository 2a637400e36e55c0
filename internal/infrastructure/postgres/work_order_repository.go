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
	_ repository.WorkOrderRepository      = (*WorkOrderRepo)(nil)
	_ repository.WorkOrderEventRepository = (*WorkOrderEventRepo)(nil)
)

const woColumns = `id, number, mo_id, bom_operation_id, name, work_center_id, sequence, estimated_duration_minutes, actual_duration_minutes, status, operator_id, scheduled_start_date, actual_start_date, completion_date, pause_start_time, total_pause_minutes, notes, quality_notes, created_at, updated_at`

// WorkOrderRepo implementación de órdenes de trabajo sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador de órdenes de trabajo.
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una orden de trabajo.
func (r *WorkOrderRepo) Create(wo *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (` + woColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.Number, wo.MOID, nullable(wo.BOMOperationID), wo.Name, wo.WorkCenterID,
		wo.Sequence, wo.EstimatedDurationMinutes, wo.ActualDurationMinutes, wo.Status,
		nullable(wo.OperatorID), wo.ScheduledStartDate, wo.ActualStartDate, wo.CompletionDate,
		wo.PauseStartTime, wo.TotalPauseMinutes, wo.Notes, wo.QualityNotes,
		wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("work order number %s: %w", wo.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de trabajo por ID. Retorna (nil, nil) si no existe.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene una orden de trabajo bloqueando su fila. Todas las
// transiciones de estado pasan por aquí.
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE id = $1 FOR UPDATE`
	wo, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, mapConflict("lock work order", err)
	}
	return wo, nil
}

// Update persiste los cambios de una orden de trabajo.
func (r *WorkOrderRepo) Update(wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET
			actual_duration_minutes = $2, status = $3, operator_id = $4,
			actual_start_date = $5, completion_date = $6, pause_start_time = $7,
			total_pause_minutes = $8, notes = $9, quality_notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.ActualDurationMinutes, wo.Status, nullable(wo.OperatorID),
		wo.ActualStartDate, wo.CompletionDate, wo.PauseStartTime,
		wo.TotalPauseMinutes, wo.Notes, wo.QualityNotes, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMO órdenes de trabajo de una MO en orden de secuencia.
func (r *WorkOrderRepo) ListByMO(moID string) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE mo_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, moID)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWO(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, wo)
	}
	return list, rows.Err()
}

// CountNonTerminalByMO cuenta las órdenes de trabajo que aún no llegaron a
// COMPLETED ni CANCELED.
func (r *WorkOrderRepo) CountNonTerminalByMO(moID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM work_orders WHERE mo_id = $1 AND status NOT IN ($2, $3)`,
		moID, entity.WOStatusCompleted, entity.WOStatusCanceled,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending work orders: %w", err)
	}
	return count, nil
}

// DeleteByMO elimina las órdenes de trabajo de una MO.
func (r *WorkOrderRepo) DeleteByMO(moID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM work_orders WHERE mo_id = $1`, moID)
	if err != nil {
		return fmt.Errorf("delete work orders: %w", err)
	}
	return nil
}

func (r *WorkOrderRepo) scanOne(row pgx.Row) (*entity.WorkOrder, error) {
	wo, err := scanWO(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return wo, nil
}

func scanWO(row pgx.Row) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	var bomOp, operator *string
	err := row.Scan(
		&wo.ID, &wo.Number, &wo.MOID, &bomOp, &wo.Name, &wo.WorkCenterID,
		&wo.Sequence, &wo.EstimatedDurationMinutes, &wo.ActualDurationMinutes, &wo.Status,
		&operator, &wo.ScheduledStartDate, &wo.ActualStartDate, &wo.CompletionDate,
		&wo.PauseStartTime, &wo.TotalPauseMinutes, &wo.Notes, &wo.QualityNotes,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bomOp != nil {
		wo.BOMOperationID = *bomOp
	}
	if operator != nil {
		wo.OperatorID = *operator
	}
	return &wo, nil
}

// WorkOrderEventRepo implementación de la traza de auditoría. Append-only.
type WorkOrderEventRepo struct {
	q Querier
}

// NewWorkOrderEventRepository construye el adaptador de eventos.
func NewWorkOrderEventRepository(q Querier) *WorkOrderEventRepo {
	return &WorkOrderEventRepo{q: q}
}

// Create persiste un evento de auditoría.
func (r *WorkOrderEventRepo) Create(ev *entity.WorkOrderEvent) error {
	query := `
		INSERT INTO work_order_events (id, work_order_id, event_type, notes, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		ev.ID, ev.WorkOrderID, ev.EventType, ev.Notes, nullable(ev.ActorID), ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert work order event: %w", err)
	}
	return nil
}

// ListByWorkOrder eventos de una orden de trabajo en orden cronológico.
func (r *WorkOrderEventRepo) ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderEvent, error) {
	query := `
		SELECT id, work_order_id, event_type, notes, actor_id, occurred_at
		FROM work_order_events WHERE work_order_id = $1 ORDER BY occurred_at, id`
	rows, err := r.q.Query(context.Background(), query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work order events: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrderEvent
	for rows.Next() {
		var ev entity.WorkOrderEvent
		var actor *string
		if err := rows.Scan(&ev.ID, &ev.WorkOrderID, &ev.EventType, &ev.Notes, &actor, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan work order event: %w", err)
		}
		if actor != nil {
			ev.ActorID = *actor
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
