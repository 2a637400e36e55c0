package manufacturing

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// MOUseCase ciclo de vida de las órdenes de fabricación: creación con snapshot de
// la BOM, confirmación con gate de disponibilidad, cierre atómico vía el
// orquestador de stock y cancelación.
type MOUseCase struct {
	txRunner    TxRunner
	moRepo      repository.ManufacturingOrderRepository
	reqRepo     repository.ComponentRequirementRepository
	woRepo      repository.WorkOrderRepository
	bomRepo     repository.BOMRepository
	productRepo repository.ProductRepository
}

// NewMOUseCase construye el caso de uso de órdenes de fabricación.
func NewMOUseCase(
	txRunner TxRunner,
	moRepo repository.ManufacturingOrderRepository,
	reqRepo repository.ComponentRequirementRepository,
	woRepo repository.WorkOrderRepository,
	bomRepo repository.BOMRepository,
	productRepo repository.ProductRepository,
) *MOUseCase {
	return &MOUseCase{
		txRunner:    txRunner,
		moRepo:      moRepo,
		reqRepo:     reqRepo,
		woRepo:      woRepo,
		bomRepo:     bomRepo,
		productRepo: productRepo,
	}
}

// CreateMOInput entrada para crear una orden de fabricación.
type CreateMOInput struct {
	ProductID          string
	BOMID              string // vacío = BOM activa del producto
	QuantityToProduce  int
	Priority           string
	ScheduledStartDate time.Time
	ScheduledEndDate   *time.Time
	AssigneeID         string
	Notes              string
	CreatedBy          string
}

// Create crea la MO en DRAFT y materializa sus requerimientos de componentes como
// copia de valor de la BOM (snapshot: ediciones posteriores de la BOM nunca afectan
// una orden abierta). Orden y requerimientos se insertan en una sola transacción.
func (uc *MOUseCase) Create(ctx context.Context, input CreateMOInput) (*entity.ManufacturingOrder, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if input.QuantityToProduce <= 0 {
		return nil, domain.NewValidationError("quantity_to_produce", "debe ser mayor que cero")
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var bom *entity.BOM
	if input.BOMID != "" {
		bom, err = uc.bomRepo.GetByID(input.BOMID)
	} else {
		bom, err = uc.bomRepo.GetActiveByProduct(input.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.NewValidationError("bom", "el producto no tiene una BOM utilizable")
	}
	if bom.ProductID != input.ProductID {
		return nil, domain.NewValidationError("bom", "la BOM no corresponde al producto de la orden")
	}

	priority := input.Priority
	if priority == "" {
		priority = entity.MOPriorityMedium
	}
	switch priority {
	case entity.MOPriorityLow, entity.MOPriorityMedium, entity.MOPriorityHigh:
	default:
		return nil, domain.NewValidationError("priority", "prioridad desconocida: "+priority)
	}

	now := time.Now()
	number, err := nextOrderNumber(uc.moRepo.LastNumberWithPrefix, now)
	if err != nil {
		return nil, err
	}
	mo := &entity.ManufacturingOrder{
		ID:                 uuid.New().String(),
		Number:             number,
		ProductID:          input.ProductID,
		BOMID:              bom.ID,
		QuantityToProduce:  input.QuantityToProduce,
		Status:             entity.MOStatusDraft,
		Priority:           priority,
		ScheduledStartDate: input.ScheduledStartDate,
		ScheduledEndDate:   input.ScheduledEndDate,
		AssigneeID:         input.AssigneeID,
		Notes:              input.Notes,
		CreatedBy:          input.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		reqRepo repository.ComponentRequirementRepository,
		_ repository.WorkOrderRepository,
		_ repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
	) error {
		if err := moRepo.Create(mo); err != nil {
			return err
		}
		return populateComponentsFromBOM(reqRepo, mo, bom, now)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// populateComponentsFromBOM reemplaza los requerimientos de la MO por copias
// frescas derivadas de la lista de componentes de la BOM y la cantidad a producir.
func populateComponentsFromBOM(
	reqRepo repository.ComponentRequirementRepository,
	mo *entity.ManufacturingOrder,
	bom *entity.BOM,
	now time.Time,
) error {
	if err := reqRepo.DeleteByMO(mo.ID); err != nil {
		return err
	}
	qty := decimal.NewFromInt(int64(mo.QuantityToProduce))
	for _, comp := range bom.Components {
		req := &entity.ComponentRequirement{
			ID:               uuid.New().String(),
			MOID:             mo.ID,
			ComponentID:      comp.ComponentID,
			QuantityPerUnit:  comp.QuantityPerUnit,
			RequiredQuantity: comp.QuantityPerUnit.Mul(qty),
			ConsumedQuantity: decimal.Zero,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := reqRepo.Create(req); err != nil {
			return err
		}
	}
	return nil
}

// Confirm transiciona DRAFT → CONFIRMED tras el gate de disponibilidad: cada
// requerimiento debe estar cubierto por el stock vivo de su componente. Si hay
// faltantes se reportan TODOS, ordenados por nombre de componente (mensaje
// determinista). Al confirmar se genera el lote de órdenes de trabajo, una por
// operación de la BOM en orden de secuencia, con duración escalada por cantidad.
func (uc *MOUseCase) Confirm(ctx context.Context, moID string) (*entity.ManufacturingOrder, error) {
	var mo *entity.ManufacturingOrder
	err := uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		reqRepo repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		_ repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mo, err = moRepo.GetForUpdate(moID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if err := checkComponentAvailability(reqRepo, productRepo, mo.ID); err != nil {
			return err
		}
		if err := mo.Confirm(); err != nil {
			return err
		}

		bom, err := uc.bomRepo.GetByID(mo.BOMID)
		if err != nil {
			return err
		}
		if bom == nil {
			return domain.ErrNotFound
		}
		if err := createWorkOrders(woRepo, mo, bom, time.Now()); err != nil {
			return err
		}
		mo.UpdatedAt = time.Now()
		return moRepo.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// checkComponentAvailability verifica remaining_quantity <= current_stock para cada
// requerimiento. Devuelve un InsufficiencyError con todos los faltantes, ordenados
// por nombre de componente.
func checkComponentAvailability(
	reqRepo repository.ComponentRequirementRepository,
	productRepo repository.ProductRepository,
	moID string,
) error {
	reqs, err := reqRepo.ListByMO(moID)
	if err != nil {
		return err
	}
	var shortages []domain.Shortage
	for _, req := range reqs {
		component, err := productRepo.GetByID(req.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrNotFound
		}
		if !req.IsSatisfied(component.CurrentStock) {
			shortages = append(shortages, domain.Shortage{
				ComponentID:   component.ID,
				ComponentName: component.Name,
				Required:      req.RemainingQuantity(),
				Available:     component.CurrentStock,
			})
		}
	}
	if len(shortages) > 0 {
		sort.Slice(shortages, func(i, j int) bool { return shortages[i].ComponentName < shortages[j].ComponentName })
		return &domain.InsufficiencyError{Shortages: shortages}
	}
	return nil
}

// createWorkOrders genera una orden de trabajo por operación de la BOM, en orden de
// secuencia, con duración estimada = tiempo total de la operación × cantidad.
func createWorkOrders(
	woRepo repository.WorkOrderRepository,
	mo *entity.ManufacturingOrder,
	bom *entity.BOM,
	now time.Time,
) error {
	ops := make([]entity.BOMOperation, len(bom.Operations))
	copy(ops, bom.Operations)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Sequence < ops[j].Sequence })

	for _, op := range ops {
		scheduled := mo.ScheduledStartDate
		wo := &entity.WorkOrder{
			ID:                       uuid.New().String(),
			Number:                   fmt.Sprintf("%s-%02d", mo.Number, op.Sequence),
			MOID:                     mo.ID,
			BOMOperationID:           op.ID,
			Name:                     op.Name,
			WorkCenterID:             op.WorkCenterID,
			Sequence:                 op.Sequence,
			EstimatedDurationMinutes: op.TotalTimeMinutes(mo.QuantityToProduce),
			ScheduledStartDate:       &scheduled,
			Status:                   entity.WOStatusPending,
			CreatedAt:                now,
			UpdatedAt:                now,
		}
		if err := woRepo.Create(wo); err != nil {
			return err
		}
	}
	return nil
}

// Complete cierre explícito de la orden: re-valida que todas las órdenes de trabajo
// estén COMPLETED, corre el orquestador de stock (consumos + producción) y recién
// entonces marca DONE con fecha y cantidad producida — todo en una transacción, de
// modo que un fallo de consumo/producción deja la MO en IN_PROGRESS, nunca DONE.
func (uc *MOUseCase) Complete(ctx context.Context, moID, actorID string) (*ConsumptionResult, error) {
	var result *ConsumptionResult
	err := uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		reqRepo repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		_ repository.WorkOrderEventRepository,
		ledgerRepo repository.StockLedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		mo, err := moRepo.GetForUpdate(moID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if mo.Status == entity.MOStatusDone {
			return domain.NewValidationError("status", "la orden ya está completada")
		}
		pending, err := woRepo.CountNonTerminalByMO(mo.ID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domain.NewValidationError("work_orders",
				fmt.Sprintf("quedan %d órdenes de trabajo sin completar", pending))
		}

		now := time.Now()
		result, err = completeManufacturingOrderInTx(reqRepo, ledgerRepo, productRepo, mo, actorID, now)
		if err != nil {
			return err
		}
		if err := mo.MarkDone(now); err != nil {
			return err
		}
		mo.UpdatedAt = now
		return moRepo.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela la orden. Política: solo desde DRAFT o CONFIRMED y solo mientras
// ninguna orden de trabajo haya salido de PENDING; con trabajo iniciado la orden se
// resuelve manualmente, no se cancela.
func (uc *MOUseCase) Cancel(ctx context.Context, moID string) error {
	return uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		_ repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		_ repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
	) error {
		mo, err := moRepo.GetForUpdate(moID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		wos, err := woRepo.ListByMO(mo.ID)
		if err != nil {
			return err
		}
		for _, wo := range wos {
			if wo.Status != entity.WOStatusPending {
				return domain.NewValidationError("work_orders",
					fmt.Sprintf("la orden de trabajo %s ya fue iniciada; la orden no puede cancelarse", wo.Number))
			}
		}
		if err := mo.Cancel(); err != nil {
			return err
		}
		for _, wo := range wos {
			if err := wo.Cancel(); err != nil {
				return err
			}
			wo.UpdatedAt = time.Now()
			if err := woRepo.Update(wo); err != nil {
				return err
			}
		}
		mo.UpdatedAt = time.Now()
		return moRepo.Update(mo)
	})
}

// RequirementStatus estado de un requerimiento frente al stock vivo del componente.
type RequirementStatus struct {
	Requirement   *entity.ComponentRequirement
	ComponentName string
	ComponentSKU  string
	CurrentStock  decimal.Decimal
	Shortage      decimal.Decimal
	IsSufficient  bool
}

// ComponentRequirements requerimientos de la orden con disponibilidad en vivo,
// ordenados por nombre de componente.
func (uc *MOUseCase) ComponentRequirements(ctx context.Context, moID string) ([]*RequirementStatus, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, domain.ErrNotFound
	}
	reqs, err := uc.reqRepo.ListByMO(moID)
	if err != nil {
		return nil, err
	}
	statuses := make([]*RequirementStatus, 0, len(reqs))
	for _, req := range reqs {
		component, err := uc.productRepo.GetByID(req.ComponentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, domain.ErrNotFound
		}
		shortage := req.RemainingQuantity().Sub(component.CurrentStock)
		if shortage.Sign() < 0 {
			shortage = decimal.Zero
		}
		statuses = append(statuses, &RequirementStatus{
			Requirement:   req,
			ComponentName: component.Name,
			ComponentSKU:  component.SKU,
			CurrentStock:  component.CurrentStock,
			Shortage:      shortage,
			IsSufficient:  req.IsSatisfied(component.CurrentStock),
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ComponentName < statuses[j].ComponentName })
	return statuses, nil
}

// Progress porcentaje de avance: órdenes de trabajo completadas / totales × 100.
func (uc *MOUseCase) Progress(ctx context.Context, moID string) (float64, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return 0, err
	}
	if mo == nil {
		return 0, domain.ErrNotFound
	}
	wos, err := uc.woRepo.ListByMO(moID)
	if err != nil {
		return 0, err
	}
	mo.WorkOrders = make([]entity.WorkOrder, len(wos))
	for i, wo := range wos {
		mo.WorkOrders[i] = *wo
	}
	return mo.ProgressPercentage(), nil
}

// GetByID orden por ID, con requerimientos y órdenes de trabajo cargados.
func (uc *MOUseCase) GetByID(ctx context.Context, moID string) (*entity.ManufacturingOrder, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, domain.ErrNotFound
	}
	reqs, err := uc.reqRepo.ListByMO(moID)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		mo.ComponentRequirements = append(mo.ComponentRequirements, *r)
	}
	wos, err := uc.woRepo.ListByMO(moID)
	if err != nil {
		return nil, err
	}
	for _, w := range wos {
		mo.WorkOrders = append(mo.WorkOrders, *w)
	}
	return mo, nil
}

// List órdenes filtradas por estado (vacío = todas).
func (uc *MOUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return uc.moRepo.List(status, limit, offset)
}

// nextOrderNumber genera el siguiente número MOyyyymm#### del mes.
func nextOrderNumber(lastWithPrefix func(string) (string, error), now time.Time) (string, error) {
	period := "MO" + now.Format("200601")
	last, err := lastWithPrefix(period)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" && len(last) >= 4 {
		if n, convErr := strconv.Atoi(last[len(last)-4:]); convErr == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", period, seq), nil
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
