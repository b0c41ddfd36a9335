package repository

import (
	"context"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// OperationLogRepository puerto del registro de auditoría. Las entradas nunca se modifican.
type OperationLogRepository interface {
	// Append persiste la entrada y le asigna ID.
	Append(ctx context.Context, entry *entity.OperationLogEntry) error
	// ListRecent devuelve hasta limit entradas, la más reciente primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.OperationLogEntry, error)
}
