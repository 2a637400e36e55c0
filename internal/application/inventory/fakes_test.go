package inventory_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// memStore estado compartido de los repositorios en memoria de estos tests.
type memStore struct {
	products    map[string]*entity.Product
	ledger      []*entity.StockLedgerEntry
	adjustments map[string]*entity.StockAdjustment
}

func newMemStore() *memStore {
	return &memStore{
		products:    make(map[string]*entity.Product),
		adjustments: make(map[string]*entity.StockAdjustment),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ─────────────────────────────────────────────────────────────────────────────

type memLedgerRepo struct{ s *memStore }

var _ repository.StockLedgerRepository = (*memLedgerRepo)(nil)

func (r *memLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	cp := *entry
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *memLedgerRepo) GetByID(id string) (*entity.StockLedgerEntry, error) {
	for _, e := range r.s.ledger {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByMovementType(movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.MovementType == movementType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByMO(moID string) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.RelatedMOID == moID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) Summary(from, to *time.Time) ([]*entity.LedgerSummaryLine, error) {
	totals := make(map[string]*entity.LedgerSummaryLine)
	for _, e := range r.s.ledger {
		line, ok := totals[e.MovementType]
		if !ok {
			line = &entity.LedgerSummaryLine{MovementType: e.MovementType}
			totals[e.MovementType] = line
		}
		line.EntryCount++
		line.TotalQuantity = line.TotalQuantity.Add(e.QuantityChange)
	}
	var out []*entity.LedgerSummaryLine
	for _, line := range totals {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementType < out[j].MovementType })
	return out, nil
}

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateCurrentStock(productID string, stock decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (r *memProductRepo) List(productType string, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

type memAdjustmentRepo struct{ s *memStore }

var _ repository.StockAdjustmentRepository = (*memAdjustmentRepo)(nil)

func (r *memAdjustmentRepo) Create(adj *entity.StockAdjustment) error {
	for _, existing := range r.s.adjustments {
		if existing.Number == adj.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.adjustments[adj.ID] = adj
	return nil
}

func (r *memAdjustmentRepo) GetByID(id string) (*entity.StockAdjustment, error) {
	return r.s.adjustments[id], nil
}

func (r *memAdjustmentRepo) GetForUpdate(id string) (*entity.StockAdjustment, error) {
	return r.s.adjustments[id], nil
}

func (r *memAdjustmentRepo) Update(adj *entity.StockAdjustment) error {
	if _, ok := r.s.adjustments[adj.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.adjustments[adj.ID] = adj
	return nil
}

func (r *memAdjustmentRepo) Delete(id string) error {
	if _, ok := r.s.adjustments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.adjustments, id)
	return nil
}

func (r *memAdjustmentRepo) ListPending(limit, offset int) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	for _, adj := range r.s.adjustments {
		if !adj.IsApproved {
			out = append(out, adj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memAdjustmentRepo) LastNumberWithPrefix(prefix string) (string, error) {
	last := ""
	for _, adj := range r.s.adjustments {
		if strings.HasPrefix(adj.Number, prefix) && adj.Number > last {
			last = adj.Number
		}
	}
	return last, nil
}

// staleAdjustmentRepo simula las lecturas fuera de transacción de un repo atado al
// pool: devuelve siempre una copia fija del ajuste, ciega a lo que otra transacción
// haya commiteado después.
type staleAdjustmentRepo struct {
	repository.StockAdjustmentRepository
	stale entity.StockAdjustment
}

func (r *staleAdjustmentRepo) GetByID(id string) (*entity.StockAdjustment, error) {
	if id == r.stale.ID {
		cp := r.stale
		return &cp, nil
	}
	return r.StockAdjustmentRepository.GetByID(id)
}

func (r *staleAdjustmentRepo) GetForUpdate(id string) (*entity.StockAdjustment, error) {
	return r.GetByID(id)
}

// memTxRunner ejecuta el callback directamente contra el estado compartido; los
// tests que verifican atomicidad real viven en la capa postgres.
type memTxRunner struct{ s *memStore }

func (tr *memTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
) error) error {
	return fn(&memLedgerRepo{tr.s}, &memProductRepo{tr.s}, &memAdjustmentRepo{tr.s})
}
