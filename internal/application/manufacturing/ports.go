package manufacturing

import (
	"context"

	"github.com/ordio-mrp/ordio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// del motor de fabricación atados a esa tx. La finalización de una MO (consumos +
// producción + estado DONE) es multi-fila y vive entera en una sola transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		moRepo repository.ManufacturingOrderRepository,
		reqRepo repository.ComponentRequirementRepository,
		woRepo repository.WorkOrderRepository,
		eventRepo repository.WorkOrderEventRepository,
		ledgerRepo repository.StockLedgerRepository,
		productRepo repository.ProductRepository,
	) error) error
}
