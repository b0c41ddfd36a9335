package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
	"github.com/jhoicas/stockdoc-api/pkg/logger"
)

// ConfirmOptions política del motor de confirmación.
type ConfirmOptions struct {
	// AllowNegativeNewItem permite que una salida sobre un código nuevo cree el artículo
	// con existencia negativa. Si es false la confirmación falla con ErrNegativeInitialStock.
	AllowNegativeNewItem bool
}

// ConfirmResult resultado de una confirmación.
type ConfirmResult struct {
	MovementID string
	IsNewItem  bool
	Item       *entity.InventoryItem
	LogEntry   *entity.OperationLogEntry
}

// ConfirmMovementUseCase aplica un movimiento PENDING al inventario en una única transacción:
// bloqueo del movimiento, bloqueo por código, actualización o creación del artículo,
// entrada de auditoría y paso a CONFIRMED. Todo o nada.
type ConfirmMovementUseCase struct {
	txRunner TxRunner
	cache    InventoryCache
	log      *logger.Logger
	opts     ConfirmOptions
	now      func() time.Time
}

// NewConfirmMovementUseCase construye el motor. cache puede ser nil.
func NewConfirmMovementUseCase(txRunner TxRunner, cache InventoryCache, log *logger.Logger, opts ConfirmOptions) *ConfirmMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfirmMovementUseCase{
		txRunner: txRunner,
		cache:    cache,
		log:      log.Component("confirm"),
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Confirm confirma el movimiento id. Si no existe o ya fue confirmado devuelve
// domain.ErrNotFoundOrAlreadyConfirmed y no modifica nada.
func (uc *ConfirmMovementUseCase) Confirm(ctx context.Context, id string) (*ConfirmResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFoundOrAlreadyConfirmed
	}

	var result *ConfirmResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		itemRepo repository.InventoryItemRepository,
		logRepo repository.OperationLogRepository,
	) error {
		// Bloquea la fila del movimiento: una segunda confirmación concurrente espera y luego no lo ve PENDING
		mov, err := movRepo.GetPendingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFoundOrAlreadyConfirmed
		}

		// Serializa por código, incluso cuando el artículo todavía no existe
		item, err := itemRepo.GetForUpdate(ctx, mov.Code)
		if err != nil {
			return err
		}

		now := uc.now()
		if item != nil {
			result, err = uc.applyToExisting(ctx, itemRepo, logRepo, mov, item, now)
		} else {
			result, err = uc.createItem(ctx, itemRepo, logRepo, mov, now)
		}
		if err != nil {
			return err
		}
		return movRepo.MarkConfirmed(ctx, mov.ID, now)
	})
	if err != nil {
		ev := uc.log.Warn()
		if !isBusinessError(err) {
			ev = uc.log.Error()
		}
		ev.Err(err).Str("movement_id", id).Msg("confirmación rechazada")
		return nil, err
	}

	uc.invalidateCache(ctx)
	uc.log.Info().
		Str("movement_id", result.MovementID).
		Str("code", result.Item.Code).
		Str("operation", result.LogEntry.OperationType).
		Str("previous", result.LogEntry.PreviousQuantity.String()).
		Str("resulting", result.LogEntry.ResultingQuantity.String()).
		Bool("new_item", result.IsNewItem).
		Msg("movimiento confirmado")
	return result, nil
}

// applyToExisting: resulting = previous ± quantity, actualiza el artículo y registra la operación con el tipo del movimiento.
func (uc *ConfirmMovementUseCase) applyToExisting(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.OperationLogRepository,
	mov *entity.Movement,
	item *entity.InventoryItem,
	now time.Time,
) (*ConfirmResult, error) {
	previous := item.AvailableQuantity
	resulting := previous.Add(mov.SignedQuantity())

	item.AvailableQuantity = resulting
	item.LastUpdated = now
	if err := itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	entry := &entity.OperationLogEntry{
		MovementID:        mov.ID,
		Code:              mov.Code,
		OperationType:     mov.MovementType,
		PreviousQuantity:  previous,
		DeltaQuantity:     mov.Quantity,
		ResultingQuantity: resulting,
		Timestamp:         now,
	}
	if err := logRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return &ConfirmResult{MovementID: mov.ID, IsNewItem: false, Item: item, LogEntry: entry}, nil
}

// createItem: primer movimiento confirmado del código; existencia inicial = cantidad con signo, log NEW_ITEM.
func (uc *ConfirmMovementUseCase) createItem(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.OperationLogRepository,
	mov *entity.Movement,
	now time.Time,
) (*ConfirmResult, error) {
	initial := mov.SignedQuantity()
	if initial.LessThan(decimal.Zero) && !uc.opts.AllowNegativeNewItem {
		return nil, domain.ErrNegativeInitialStock
	}

	item := &entity.InventoryItem{
		Code:              mov.Code,
		Description:       mov.Description,
		AvailableQuantity: initial,
		LastUpdated:       now,
	}
	if err := itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	entry := &entity.OperationLogEntry{
		MovementID:        mov.ID,
		Code:              mov.Code,
		OperationType:     entity.OperationTypeNewItem,
		PreviousQuantity:  decimal.Zero,
		DeltaQuantity:     mov.Quantity,
		ResultingQuantity: initial,
		Timestamp:         now,
	}
	if err := logRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return &ConfirmResult{MovementID: mov.ID, IsNewItem: true, Item: item, LogEntry: entry}, nil
}

func (uc *ConfirmMovementUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché de inventario")
	}
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrNotFoundOrAlreadyConfirmed) ||
		errors.Is(err, domain.ErrNegativeInitialStock)
}
