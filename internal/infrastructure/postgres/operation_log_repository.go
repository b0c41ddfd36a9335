package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

var _ repository.OperationLogRepository = (*OperationLogRepo)(nil)

// OperationLogRepo registro de auditoría sobre PostgreSQL. Un trigger impide UPDATE/DELETE.
type OperationLogRepo struct {
	q Querier
}

// NewOperationLogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewOperationLogRepository(q Querier) *OperationLogRepo {
	return &OperationLogRepo{q: q}
}

// Append inserta la entrada y completa su ID.
func (r *OperationLogRepo) Append(ctx context.Context, entry *entity.OperationLogEntry) error {
	query := `
		INSERT INTO operation_log
			(movement_id, code, operation_type, previous_quantity, delta_quantity, resulting_quantity, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		entry.MovementID, entry.Code, entry.OperationType,
		entry.PreviousQuantity, entry.DeltaQuantity, entry.ResultingQuantity, entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		// movement_id es UNIQUE: un movimiento solo puede registrarse una vez
		if isUniqueViolation(err) {
			return fmt.Errorf("append operation log: %w", domain.ErrNotFoundOrAlreadyConfirmed)
		}
		return fmt.Errorf("append operation log: %w", err)
	}
	return nil
}

// ListRecent devuelve hasta limit entradas, la más reciente primero.
func (r *OperationLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.OperationLogEntry, error) {
	query := `
		SELECT id, movement_id, code, operation_type, previous_quantity, delta_quantity, resulting_quantity, "timestamp"
		FROM operation_log
		ORDER BY "timestamp" DESC, id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list operation log: %w", err)
	}
	defer rows.Close()
	var list []*entity.OperationLogEntry
	for rows.Next() {
		var e entity.OperationLogEntry
		var movementID uuid.UUID
		if err := rows.Scan(&e.ID, &movementID, &e.Code, &e.OperationType,
			&e.PreviousQuantity, &e.DeltaQuantity, &e.ResultingQuantity, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan operation log: %w", err)
		}
		e.MovementID = movementID.String()
		list = append(list, &e)
	}
	return list, rows.Err()
}
