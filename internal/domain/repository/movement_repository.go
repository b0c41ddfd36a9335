package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos (append-only).
type MovementRepository interface {
	// Create persiste un movimiento PENDING; asigna ID si viene vacío.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListPending devuelve los movimientos PENDING, el más reciente primero.
	ListPending(ctx context.Context) ([]*entity.Movement, error)
	// GetPendingForUpdate obtiene el movimiento solo si está PENDING y bloquea la fila
	// hasta el fin de la transacción. Devuelve nil, nil si no existe o ya fue confirmado.
	GetPendingForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// MarkConfirmed pasa el movimiento de PENDING a CONFIRMED.
	MarkConfirmed(ctx context.Context, id string, confirmedAt time.Time) error
}
