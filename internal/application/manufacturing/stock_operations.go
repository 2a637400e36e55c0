package manufacturing

import (
	"sort"
	"time"

	"github.com/ordio-mrp/ordio-api/internal/application/inventory"
	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// ConsumptionResult asientos emitidos al completar una orden de fabricación:
// un consumo por componente y una producción del terminado.
type ConsumptionResult struct {
	Consumed []*entity.StockLedgerEntry
	Produced *entity.StockLedgerEntry
}

// completeManufacturingOrderInTx orquesta el protocolo atómico de cierre de una MO
// usando los repositorios del caller (misma transacción):
//
//  1. Requerimientos ordenados por ComponentID: el orden de adquisición de locks es
//     determinista en todos los call sites, lo que evita deadlocks entre dos MOs
//     que comparten componentes.
//  2. Por componente: lock de fila, re-validación de suficiencia bajo el lock,
//     asiento MO_CONSUMPTION por -pendiente y avance de ConsumedQuantity.
//     El primer componente insuficiente aborta la transacción completa (sin
//     consumo parcial) nombrando componente, requerido y disponible.
//  3. Al final, asiento MO_PRODUCTION por +cantidad a producir del terminado
//     (los componentes primero, el terminado último).
func completeManufacturingOrderInTx(
	reqRepo repository.ComponentRequirementRepository,
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	mo *entity.ManufacturingOrder,
	actorID string,
	now time.Time,
) (*ConsumptionResult, error) {
	reqs, err := reqRepo.ListByMO(mo.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ComponentID < reqs[j].ComponentID })

	result := &ConsumptionResult{}
	for _, req := range reqs {
		remaining := req.RemainingQuantity()
		if remaining.Sign() <= 0 {
			continue
		}
		component, err := productRepo.GetForUpdate(req.ComponentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, domain.ErrNotFound
		}
		if !component.CanConsume(remaining) {
			return nil, &domain.InsufficiencyError{Shortages: []domain.Shortage{{
				ComponentID:   component.ID,
				ComponentName: component.Name,
				Required:      remaining,
				Available:     component.CurrentStock,
			}}}
		}
		entry, err := inventory.RecordInTx(ledgerRepo, productRepo, inventory.RecordInput{
			ProductID:      component.ID,
			QuantityChange: remaining.Neg(),
			MovementType:   entity.MovementTypeMOConsumption,
			Reference:      mo.Number,
			RelatedMOID:    mo.ID,
			Notes:          "Consumo de componentes de " + mo.Number,
			CreatedBy:      actorID,
		}, now)
		if err != nil {
			return nil, err
		}
		result.Consumed = append(result.Consumed, entry)

		req.ConsumedQuantity = req.ConsumedQuantity.Add(remaining)
		if err := reqRepo.UpdateConsumed(req); err != nil {
			return nil, err
		}
	}

	produced, err := inventory.RecordInTx(ledgerRepo, productRepo, inventory.RecordInput{
		ProductID:      mo.ProductID,
		QuantityChange: decimalFromInt(mo.QuantityToProduce),
		MovementType:   entity.MovementTypeMOProduction,
		Reference:      mo.Number,
		RelatedMOID:    mo.ID,
		Notes:          "Producción de " + mo.Number,
		CreatedBy:      actorID,
	}, now)
	if err != nil {
		return nil, err
	}
	result.Produced = produced
	return result, nil
}
