package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos PENDING a partir de renglones extraídos y los consulta.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. movRepo es el repositorio fuera de transacción (pool).
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Stage crea un movimiento PENDING y devuelve su ID.
// La cantidad debe ser un decimal positivo (acepta coma decimal) y el código no vacío.
func (uc *LedgerUseCase) Stage(ctx context.Context, item entity.LineItem, movementType string) (string, error) {
	mov, err := uc.newMovement(item, movementType)
	if err != nil {
		return "", err
	}
	if err := uc.movRepo.Create(ctx, mov); err != nil {
		return "", err
	}
	return mov.ID, nil
}

// StageBatch registra todos los renglones de un documento en una sola transacción:
// si alguno es inválido o falla la escritura no se registra ninguno.
func (uc *LedgerUseCase) StageBatch(ctx context.Context, items []entity.LineItem, movementType string) ([]string, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	movements := make([]*entity.Movement, 0, len(items))
	for _, it := range items {
		mov, err := uc.newMovement(it, movementType)
		if err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.InventoryItemRepository,
		_ repository.OperationLogRepository,
	) error {
		for _, mov := range movements {
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(movements))
	for i, mov := range movements {
		ids[i] = mov.ID
	}
	return ids, nil
}

// ListPending devuelve los movimientos por confirmar, el más reciente primero.
func (uc *LedgerUseCase) ListPending(ctx context.Context) ([]*entity.Movement, error) {
	return uc.movRepo.ListPending(ctx)
}

// Get obtiene un movimiento por ID (cualquier estado).
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*entity.Movement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

func (uc *LedgerUseCase) newMovement(item entity.LineItem, movementType string) (*entity.Movement, error) {
	if !entity.IsValidMovementType(movementType) {
		return nil, domain.ErrInvalidInput
	}
	code := strings.TrimSpace(item.Code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	qty, err := ParseQuantity(item.Quantity)
	if err != nil {
		return nil, err
	}
	// Los IDs v7 ordenan por tiempo de creación y desempatan ListPending
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &entity.Movement{
		ID:           id.String(),
		Code:         code,
		Description:  item.Description,
		Quantity:     qty,
		MovementType: movementType,
		Status:       entity.MovementStatusPending,
		CreatedAt:    uc.now(),
	}, nil
}

// ParseQuantity interpreta una cantidad textual ("10,5", "3") y exige que sea positiva.
func ParseQuantity(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	qty, err := decimal.NewFromString(text)
	if err != nil || !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return qty, nil
}
