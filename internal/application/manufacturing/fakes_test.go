package manufacturing_test

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

// mfgStore estado compartido de los repositorios en memoria del motor de
// fabricación para estos tests.
type mfgStore struct {
	products map[string]*entity.Product
	ledger   []*entity.StockLedgerEntry
	boms     map[string]*entity.BOM
	mos      map[string]*entity.ManufacturingOrder
	reqs     []*entity.ComponentRequirement
	wos      map[string]*entity.WorkOrder
	events   []*entity.WorkOrderEvent

	moRowLocks int // veces que se pidió la fila de una MO con lock
}

func newMfgStore() *mfgStore {
	return &mfgStore{
		products: make(map[string]*entity.Product),
		boms:     make(map[string]*entity.BOM),
		mos:      make(map[string]*entity.ManufacturingOrder),
		wos:      make(map[string]*entity.WorkOrder),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ─────────────────────────────────────────────────────────────────────────────

type mfgMORepo struct{ s *mfgStore }

var _ repository.ManufacturingOrderRepository = (*mfgMORepo)(nil)

func (r *mfgMORepo) Create(mo *entity.ManufacturingOrder) error {
	r.s.mos[mo.ID] = mo
	return nil
}

func (r *mfgMORepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	return r.s.mos[id], nil
}

func (r *mfgMORepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	r.s.moRowLocks++
	return r.s.mos[id], nil
}

func (r *mfgMORepo) Update(mo *entity.ManufacturingOrder) error {
	if _, ok := r.s.mos[mo.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.mos[mo.ID] = mo
	return nil
}

func (r *mfgMORepo) Delete(id string) error {
	delete(r.s.mos, id)
	return nil
}

func (r *mfgMORepo) List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	var out []*entity.ManufacturingOrder
	for _, mo := range r.s.mos {
		if status == "" || mo.Status == status {
			out = append(out, mo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *mfgMORepo) LastNumberWithPrefix(prefix string) (string, error) {
	last := ""
	for _, mo := range r.s.mos {
		if strings.HasPrefix(mo.Number, prefix) && mo.Number > last {
			last = mo.Number
		}
	}
	return last, nil
}

type mfgReqRepo struct{ s *mfgStore }

var _ repository.ComponentRequirementRepository = (*mfgReqRepo)(nil)

func (r *mfgReqRepo) Create(req *entity.ComponentRequirement) error {
	for _, existing := range r.s.reqs {
		if existing.MOID == req.MOID && existing.ComponentID == req.ComponentID {
			return domain.ErrDuplicate
		}
	}
	r.s.reqs = append(r.s.reqs, req)
	return nil
}

func (r *mfgReqRepo) ListByMO(moID string) ([]*entity.ComponentRequirement, error) {
	var out []*entity.ComponentRequirement
	for _, req := range r.s.reqs {
		if req.MOID == moID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentID < out[j].ComponentID })
	return out, nil
}

func (r *mfgReqRepo) UpdateConsumed(req *entity.ComponentRequirement) error {
	for _, existing := range r.s.reqs {
		if existing.ID == req.ID {
			existing.ConsumedQuantity = req.ConsumedQuantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *mfgReqRepo) DeleteByMO(moID string) error {
	kept := r.s.reqs[:0]
	for _, req := range r.s.reqs {
		if req.MOID != moID {
			kept = append(kept, req)
		}
	}
	r.s.reqs = kept
	return nil
}

type mfgWORepo struct{ s *mfgStore }

var _ repository.WorkOrderRepository = (*mfgWORepo)(nil)

func (r *mfgWORepo) Create(wo *entity.WorkOrder) error {
	r.s.wos[wo.ID] = wo
	return nil
}

func (r *mfgWORepo) GetByID(id string) (*entity.WorkOrder, error) {
	return r.s.wos[id], nil
}

func (r *mfgWORepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	return r.s.wos[id], nil
}

func (r *mfgWORepo) Update(wo *entity.WorkOrder) error {
	if _, ok := r.s.wos[wo.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.wos[wo.ID] = wo
	return nil
}

func (r *mfgWORepo) ListByMO(moID string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, wo := range r.s.wos {
		if wo.MOID == moID {
			out = append(out, wo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *mfgWORepo) CountNonTerminalByMO(moID string) (int, error) {
	count := 0
	for _, wo := range r.s.wos {
		if wo.MOID == moID && !wo.IsTerminal() {
			count++
		}
	}
	return count, nil
}

func (r *mfgWORepo) DeleteByMO(moID string) error {
	for id, wo := range r.s.wos {
		if wo.MOID == moID {
			delete(r.s.wos, id)
		}
	}
	return nil
}

type mfgEventRepo struct{ s *mfgStore }

var _ repository.WorkOrderEventRepository = (*mfgEventRepo)(nil)

func (r *mfgEventRepo) Create(event *entity.WorkOrderEvent) error {
	r.s.events = append(r.s.events, event)
	return nil
}

func (r *mfgEventRepo) ListByWorkOrder(workOrderID string) ([]*entity.WorkOrderEvent, error) {
	var out []*entity.WorkOrderEvent
	for _, e := range r.s.events {
		if e.WorkOrderID == workOrderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mfgLedgerRepo struct{ s *mfgStore }

var _ repository.StockLedgerRepository = (*mfgLedgerRepo)(nil)

func (r *mfgLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	cp := *entry
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *mfgLedgerRepo) GetByID(id string) (*entity.StockLedgerEntry, error) {
	for _, e := range r.s.ledger {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *mfgLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *mfgLedgerRepo) ListByMovementType(movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.MovementType == movementType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *mfgLedgerRepo) ListByMO(moID string) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.RelatedMOID == moID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *mfgLedgerRepo) Summary(from, to *time.Time) ([]*entity.LedgerSummaryLine, error) {
	return nil, nil
}

type mfgProductRepo struct{ s *mfgStore }

var _ repository.ProductRepository = (*mfgProductRepo)(nil)

func (r *mfgProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *mfgProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *mfgProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *mfgProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *mfgProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *mfgProductRepo) UpdateCurrentStock(productID string, stock decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (r *mfgProductRepo) List(productType string, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *mfgProductRepo) ListLowStock() ([]*entity.Product, error) {
	return nil, nil
}

type mfgBOMRepo struct{ s *mfgStore }

var _ repository.BOMRepository = (*mfgBOMRepo)(nil)

func (r *mfgBOMRepo) Create(bom *entity.BOM) error {
	r.s.boms[bom.ID] = bom
	return nil
}

func (r *mfgBOMRepo) GetByID(id string) (*entity.BOM, error) {
	return r.s.boms[id], nil
}

func (r *mfgBOMRepo) GetActiveByProduct(productID string) (*entity.BOM, error) {
	for _, bom := range r.s.boms {
		if bom.ProductID == productID && bom.IsActive {
			return bom, nil
		}
	}
	return nil, nil
}

func (r *mfgBOMRepo) ListByProduct(productID string) ([]*entity.BOM, error) {
	var out []*entity.BOM
	for _, bom := range r.s.boms {
		if bom.ProductID == productID {
			out = append(out, bom)
		}
	}
	return out, nil
}

func (r *mfgBOMRepo) List(limit, offset int) ([]*entity.BOM, error) {
	var out []*entity.BOM
	for _, bom := range r.s.boms {
		out = append(out, bom)
	}
	return out, nil
}

func (r *mfgBOMRepo) Deactivate(id string) error {
	bom, ok := r.s.boms[id]
	if !ok {
		return domain.ErrNotFound
	}
	bom.IsActive = false
	return nil
}

// mfgTxRunner ejecuta el callback directamente contra el estado compartido.
type mfgTxRunner struct{ s *mfgStore }

func (tr *mfgTxRunner) Run(ctx context.Context, fn func(
	moRepo repository.ManufacturingOrderRepository,
	reqRepo repository.ComponentRequirementRepository,
	woRepo repository.WorkOrderRepository,
	eventRepo repository.WorkOrderEventRepository,
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(
		&mfgMORepo{tr.s},
		&mfgReqRepo{tr.s},
		&mfgWORepo{tr.s},
		&mfgEventRepo{tr.s},
		&mfgLedgerRepo{tr.s},
		&mfgProductRepo{tr.s},
	)
}
