package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/application/manufacturing"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// Ambos runners sobre la misma implementación.
var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ manufacturing.TxRunner = (*ManufacturingTxRunner)(nil)

// InventoryTxRunner ejecuta callbacks del motor de inventario dentro de una
// transacción PostgreSQL, con repos atados a esa tx.
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o
// Rollback. El rollback diferido es inocuo tras un Commit exitoso.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockLedgerRepository(tx), NewProductRepository(tx), NewStockAdjustmentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ManufacturingTxRunner ejecuta callbacks del motor de fabricación dentro de una
// transacción PostgreSQL. El cierre de una MO (consumos + producción + DONE) es
// multi-fila y necesita todos estos repos bajo la misma tx.
type ManufacturingTxRunner struct {
	pool *pgxpool.Pool
}

// NewManufacturingTxRunner construye el runner con el pool.
func NewManufacturingTxRunner(pool *pgxpool.Pool) *ManufacturingTxRunner {
	return &ManufacturingTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del motor de fabricación
// atados a la tx y hace Commit o Rollback.
func (r *ManufacturingTxRunner) Run(ctx context.Context, fn func(
	moRepo repository.ManufacturingOrderRepository,
	reqRepo repository.ComponentRequirementRepository,
	woRepo repository.WorkOrderRepository,
	eventRepo repository.WorkOrderEventRepository,
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewManufacturingOrderRepository(tx),
		NewComponentRequirementRepository(tx),
		NewWorkOrderRepository(tx),
		NewWorkOrderEventRepository(tx),
		NewStockLedgerRepository(tx),
		NewProductRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
