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

var _ repository.BOMRepository = (*BOMRepo)(nil)

const bomColumns = `id, product_id, name, version, is_active, description, created_by, created_at, updated_at`

// BOMRepo implementación de listas de materiales sobre PostgreSQL.
// Las lecturas siempre devuelven el agregado completo (componentes y operaciones).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador de BOMs.
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create persiste la BOM con sus componentes y operaciones.
func (r *BOMRepo) Create(b *entity.BOM) error {
	ctx := context.Background()
	query := `
		INSERT INTO boms (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.Name, b.Version, b.IsActive, b.Description,
		nullable(b.CreatedBy), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("active BOM for product %s: %w", b.ProductID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert bom: %w", err)
	}
	for i := range b.Components {
		c := &b.Components[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO bom_components (id, bom_id, component_id, quantity_per_unit, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.BOMID, c.ComponentID, c.QuantityPerUnit, c.Notes,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("component %s repeated in BOM: %w", c.ComponentID, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert bom component: %w", err)
		}
	}
	for i := range b.Operations {
		op := &b.Operations[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO bom_operations (id, bom_id, name, sequence, work_center_id, duration_minutes, setup_time_minutes, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			op.ID, op.BOMID, op.Name, op.Sequence, op.WorkCenterID,
			op.DurationMinutes, op.SetupTimeMinutes, op.Description,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("sequence %d repeated in BOM: %w", op.Sequence, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert bom operation: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una BOM completa por ID. Retorna (nil, nil) si no existe.
func (r *BOMRepo) GetByID(id string) (*entity.BOM, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE id = $1`
	return r.scanAggregate(r.q.QueryRow(context.Background(), query, id))
}

// GetActiveByProduct obtiene la BOM activa de un producto. Retorna (nil, nil) si no hay.
func (r *BOMRepo) GetActiveByProduct(productID string) (*entity.BOM, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE product_id = $1 AND is_active = true`
	return r.scanAggregate(r.q.QueryRow(context.Background(), query, productID))
}

// ListByProduct todas las versiones de BOM de un producto, más reciente primero.
func (r *BOMRepo) ListByProduct(productID string) ([]*entity.BOM, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE product_id = $1 ORDER BY created_at DESC`
	return r.listAggregates(query, productID)
}

// List todas las BOMs paginadas, más reciente primero.
func (r *BOMRepo) List(limit, offset int) ([]*entity.BOM, error) {
	query := `SELECT ` + bomColumns + ` FROM boms ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.listAggregates(query, limit, offset)
}

// Deactivate marca una BOM como inactiva.
func (r *BOMRepo) Deactivate(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE boms SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BOMRepo) scanAggregate(row pgx.Row) (*entity.BOM, error) {
	b, err := scanBOM(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadChildren(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BOMRepo) listAggregates(query string, args ...any) ([]*entity.BOM, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()
	var list []*entity.BOM
	for rows.Next() {
		b, err := scanBOM(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range list {
		if err := r.loadChildren(b); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *BOMRepo) loadChildren(b *entity.BOM) error {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, bom_id, component_id, quantity_per_unit, notes
		FROM bom_components WHERE bom_id = $1 ORDER BY component_id`, b.ID)
	if err != nil {
		return fmt.Errorf("list bom components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(&c.ID, &c.BOMID, &c.ComponentID, &c.QuantityPerUnit, &c.Notes); err != nil {
			return fmt.Errorf("scan bom component: %w", err)
		}
		b.Components = append(b.Components, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	opRows, err := r.q.Query(ctx, `
		SELECT id, bom_id, name, sequence, work_center_id, duration_minutes, setup_time_minutes, description
		FROM bom_operations WHERE bom_id = $1 ORDER BY sequence`, b.ID)
	if err != nil {
		return fmt.Errorf("list bom operations: %w", err)
	}
	defer opRows.Close()
	for opRows.Next() {
		var op entity.BOMOperation
		if err := opRows.Scan(&op.ID, &op.BOMID, &op.Name, &op.Sequence, &op.WorkCenterID,
			&op.DurationMinutes, &op.SetupTimeMinutes, &op.Description); err != nil {
			return fmt.Errorf("scan bom operation: %w", err)
		}
		b.Operations = append(b.Operations, op)
	}
	return opRows.Err()
}

func scanBOM(row pgx.Row) (*entity.BOM, error) {
	var b entity.BOM
	var createdBy *string
	err := row.Scan(&b.ID, &b.ProductID, &b.Name, &b.Version, &b.IsActive,
		&b.Description, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		b.CreatedBy = *createdBy
	}
	return &b, nil
}
