package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio es visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
		logRepo repository.OperationLogRepository,
	) error) error
}

// InventoryCache caché opcional del listado de inventario (p.ej. Redis).
// Un error de caché nunca hace fallar la operación de negocio.
//
// Cada listado se guarda bajo una generación. Invalidate avanza la generación, de modo que
// un listado leído antes de una confirmación y escrito después queda bajo una generación
// que ya nadie consulta.
type InventoryCache interface {
	Generation(ctx context.Context) (int64, error)
	GetInventory(ctx context.Context, gen int64) ([]*entity.InventoryItem, bool, error)
	SetInventory(ctx context.Context, gen int64, items []*entity.InventoryItem) error
	Invalidate(ctx context.Context) error
}

// ReportGenerator genera el reporte de existencias y auditoría.
type ReportGenerator interface {
	GenerateInventoryReport(
		ctx context.Context,
		items []*entity.InventoryItem,
		entries []*entity.OperationLogEntry,
		generatedAt time.Time,
	) ([]byte, error)
}
