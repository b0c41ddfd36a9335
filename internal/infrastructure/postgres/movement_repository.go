package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, code, description, quantity, movement_type, status, created_at, confirmed_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento PENDING.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.Status == "" {
		movement.Status = entity.MovementStatusPending
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO movements (id, code, description, quantity, movement_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.Code, movement.Description, movement.Quantity,
		movement.MovementType, movement.Status, movement.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) || isDataException(err) {
			return fmt.Errorf("create movement: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListPending lista los movimientos por confirmar, el más reciente primero.
func (r *MovementRepo) ListPending(ctx context.Context) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE status = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, entity.MovementStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetPendingForUpdate obtiene el movimiento PENDING y bloquea la fila (SELECT FOR UPDATE).
// Una confirmación concurrente del mismo ID espera al commit y después ya no lo encuentra PENDING.
func (r *MovementRepo) GetPendingForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE id = $1 AND status = $2
		FOR UPDATE`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id, entity.MovementStatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return m, nil
}

// MarkConfirmed pasa el movimiento a CONFIRMED; falla si ya no estaba PENDING.
func (r *MovementRepo) MarkConfirmed(ctx context.Context, id string, confirmedAt time.Time) error {
	query := `
		UPDATE movements SET status = $2, confirmed_at = $3
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(ctx, query, id, entity.MovementStatusConfirmed, confirmedAt, entity.MovementStatusPending)
	if err != nil {
		return fmt.Errorf("confirm movement: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("confirm movement %s: %w", id, domain.ErrNotFoundOrAlreadyConfirmed)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var id uuid.UUID
	if err := row.Scan(&id, &m.Code, &m.Description, &m.Quantity, &m.MovementType,
		&m.Status, &m.CreatedAt, &m.ConfirmedAt); err != nil {
		return nil, err
	}
	m.ID = id.String()
	return &m, nil
}
