package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ordio-mrp/ordio-api/internal/domain"
	"github.com/ordio-mrp/ordio-api/internal/domain/entity"
	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// CompletionPendingError la última orden de trabajo quedó COMPLETED pero el cierre
// de la MO falló (ej. faltante detectado tarde por el orquestador). No se revierte
// el registro de taller: la MO queda IN_PROGRESS para resolución manual (ajuste de
// stock y cierre explícito de la orden).
type CompletionPendingError struct {
	MOID string
	Err  error
}

func (e *CompletionPendingError) Error() string {
	return fmt.Sprintf("orden de trabajo completada, pero el cierre de la orden de fabricación %s falló: %v", e.MOID, e.Err)
}

func (e *CompletionPendingError) Unwrap() error { return e.Err }

// WOUseCase máquina de estados de las órdenes de trabajo en taller: start, pause,
// resume, complete y cancel, con traza de auditoría estructurada por transición.
// Completar la última orden de trabajo dispara el cierre de la MO.
type WOUseCase struct {
	txRunner  TxRunner
	woRepo    repository.WorkOrderRepository
	eventRepo repository.WorkOrderEventRepository
	moUC      *MOUseCase
}

// NewWOUseCase construye el caso de uso de órdenes de trabajo.
func NewWOUseCase(
	txRunner TxRunner,
	woRepo repository.WorkOrderRepository,
	eventRepo repository.WorkOrderEventRepository,
	moUC *MOUseCase,
) *WOUseCase {
	return &WOUseCase{txRunner: txRunner, woRepo: woRepo, eventRepo: eventRepo, moUC: moUC}
}

// Start arranca una orden de trabajo PENDING. Efecto lateral, en la misma
// transacción: si es la primera en arrancar y la MO sigue CONFIRMED, la MO pasa a
// IN_PROGRESS con su fecha real de inicio.
func (uc *WOUseCase) Start(ctx context.Context, woID, operatorID string) (*entity.WorkOrder, error) {
	var wo *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		_ repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		eventRepo repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		wo, err = woRepo.GetForUpdate(woID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if err := wo.Start(now, operatorID); err != nil {
			return err
		}
		wo.UpdatedAt = now
		if err := woRepo.Update(wo); err != nil {
			return err
		}
		if err := appendEvent(eventRepo, wo.ID, entity.WOEventStarted, "", operatorID, now); err != nil {
			return err
		}

		mo, err := moRepo.GetForUpdate(wo.MOID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		if mo.Status == entity.MOStatusConfirmed {
			if err := mo.MarkInProgress(now); err != nil {
				return err
			}
			mo.UpdatedAt = now
			return moRepo.Update(mo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// Pause pausa una orden de trabajo IN_PROGRESS acumulando la sesión transcurrida.
func (uc *WOUseCase) Pause(ctx context.Context, woID, notes, actorID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, woID, entity.WOEventPaused, notes, actorID,
		func(wo *entity.WorkOrder, now time.Time) error { return wo.Pause(now) })
}

// Resume reanuda una orden de trabajo PAUSED sumando la pausa a su contabilidad.
func (uc *WOUseCase) Resume(ctx context.Context, woID, notes, actorID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, woID, entity.WOEventResumed, notes, actorID,
		func(wo *entity.WorkOrder, now time.Time) error { return wo.Resume(now) })
}

// Cancel cancela una orden de trabajo no terminal.
func (uc *WOUseCase) Cancel(ctx context.Context, woID, notes, actorID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, woID, entity.WOEventCanceled, notes, actorID,
		func(wo *entity.WorkOrder, _ time.Time) error { return wo.Cancel() })
}

// Complete completa la orden de trabajo (con duración manual opcional) y, si era la
// última no terminal de su MO, dispara el cierre de la MO en una transacción
// separada. Un fallo de ese cierre (ej. faltante descubierto tarde) NO revierte la
// orden de trabajo: se reporta como CompletionPendingError y la MO queda
// IN_PROGRESS para resolución manual.
func (uc *WOUseCase) Complete(ctx context.Context, woID, notes string, actualDuration *int, actorID string) (*entity.WorkOrder, error) {
	var wo *entity.WorkOrder
	var lastOfMO bool
	err := uc.txRunner.Run(ctx, func(
		moRepo repository.ManufacturingOrderRepository,
		_ repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		eventRepo repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		wo, err = woRepo.GetForUpdate(woID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if err := wo.Complete(now, actualDuration); err != nil {
			return err
		}
		wo.UpdatedAt = now
		if err := woRepo.Update(wo); err != nil {
			return err
		}
		if err := appendEvent(eventRepo, wo.ID, entity.WOEventCompleted, notes, actorID, now); err != nil {
			return err
		}
		// Lock de la fila de la MO: dos órdenes de trabajo del mismo lote que
		// terminan a la vez se serializan aquí, y el conteo de pendientes ve la
		// completación de la otra ya commiteada. Sin el lock ambas contarían a la
		// otra como abierta y nadie dispararía el cierre.
		mo, err := moRepo.GetForUpdate(wo.MOID)
		if err != nil {
			return err
		}
		if mo == nil {
			return domain.ErrNotFound
		}
		remaining, err := woRepo.CountNonTerminalByMO(wo.MOID)
		if err != nil {
			return err
		}
		lastOfMO = remaining == 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	// El registro de taller ya está commiteado; el cierre de la MO corre aparte para
	// que su fallo no borre la completación de la orden de trabajo.
	if lastOfMO {
		if _, err := uc.moUC.Complete(ctx, wo.MOID, actorID); err != nil {
			return wo, &CompletionPendingError{MOID: wo.MOID, Err: err}
		}
	}
	return wo, nil
}

// Events traza de auditoría ordenada de la orden de trabajo.
func (uc *WOUseCase) Events(ctx context.Context, woID string) ([]*entity.WorkOrderEvent, error) {
	wo, err := uc.woRepo.GetByID(woID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return uc.eventRepo.ListByWorkOrder(woID)
}

// GetByID orden de trabajo por ID.
func (uc *WOUseCase) GetByID(ctx context.Context, woID string) (*entity.WorkOrder, error) {
	wo, err := uc.woRepo.GetByID(woID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return wo, nil
}

// ListByMO órdenes de trabajo de una MO, en orden de secuencia.
func (uc *WOUseCase) ListByMO(ctx context.Context, moID string) ([]*entity.WorkOrder, error) {
	return uc.woRepo.ListByMO(moID)
}

// transition aplica una transición simple (pause/resume/cancel) bajo lock de fila,
// persiste y registra el evento de auditoría, en una transacción.
func (uc *WOUseCase) transition(
	ctx context.Context,
	woID, eventType, notes, actorID string,
	apply func(wo *entity.WorkOrder, now time.Time) error,
) (*entity.WorkOrder, error) {
	var wo *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		_ repository.ManufacturingOrderRepository,
		_ repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		eventRepo repository.WorkOrderEventRepository,
		_ repository.StockLedgerRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		wo, err = woRepo.GetForUpdate(woID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if err := apply(wo, now); err != nil {
			return err
		}
		wo.UpdatedAt = now
		if err := woRepo.Update(wo); err != nil {
			return err
		}
		return appendEvent(eventRepo, wo.ID, eventType, notes, actorID, now)
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

func appendEvent(
	eventRepo repository.WorkOrderEventRepository,
	woID, eventType, notes, actorID string,
	now time.Time,
) error {
	return eventRepo.Create(&entity.WorkOrderEvent{
		ID:          uuid.New().String(),
		WorkOrderID: woID,
		EventType:   eventType,
		Notes:       notes,
		ActorID:     actorID,
		OccurredAt:  now,
	})
}
