package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
	"github.com/jhoicas/stockdoc-api/pkg/logger"
)

// Límites del listado del registro de operaciones.
const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

// InventoryQueryUseCase lecturas del agregado de inventario y del registro de auditoría.
type InventoryQueryUseCase struct {
	itemRepo        repository.InventoryItemRepository
	logRepo         repository.OperationLogRepository
	cache           InventoryCache
	log             *logger.Logger
	defaultLogLimit int
}

// NewInventoryQueryUseCase construye el caso de uso. cache puede ser nil; defaultLogLimit <= 0 usa DefaultLogLimit.
func NewInventoryQueryUseCase(
	itemRepo repository.InventoryItemRepository,
	logRepo repository.OperationLogRepository,
	cache InventoryCache,
	log *logger.Logger,
	defaultLogLimit int,
) *InventoryQueryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if defaultLogLimit <= 0 || defaultLogLimit > MaxLogLimit {
		defaultLogLimit = DefaultLogLimit
	}
	return &InventoryQueryUseCase{
		itemRepo:        itemRepo,
		logRepo:         logRepo,
		cache:           cache,
		log:             log.Component("inventory_query"),
		defaultLogLimit: defaultLogLimit,
	}
}

// ListInventory devuelve todos los artículos ordenados por código.
// La generación se lee antes de consultar el repositorio; si una confirmación la avanza
// mientras tanto, el listado escrito queda huérfano y la siguiente lectura va al repositorio.
func (uc *InventoryQueryUseCase) ListInventory(ctx context.Context) ([]*entity.InventoryItem, error) {
	useCache := uc.cache != nil
	var gen int64
	if useCache {
		var err error
		gen, err = uc.cache.Generation(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer generación de caché de inventario")
			useCache = false
		}
	}
	if useCache {
		items, ok, err := uc.cache.GetInventory(ctx, gen)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer caché de inventario")
		} else if ok {
			return items, nil
		}
	}

	items, err := uc.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.InventoryItem{}
	}
	if useCache {
		if err := uc.cache.SetInventory(ctx, gen, items); err != nil {
			uc.log.Warn().Err(err).Msg("escribir caché de inventario")
		}
	}
	return items, nil
}

// GetItem devuelve el artículo del código o domain.ErrNotFound.
func (uc *InventoryQueryUseCase) GetItem(ctx context.Context, code string) (*entity.InventoryItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListLog devuelve las últimas entradas del registro, la más reciente primero.
// limit <= 0 usa el valor por defecto; el máximo es MaxLogLimit.
func (uc *InventoryQueryUseCase) ListLog(ctx context.Context, limit int) ([]*entity.OperationLogEntry, error) {
	if limit <= 0 {
		limit = uc.defaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}
	entries, err := uc.logRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*entity.OperationLogEntry{}
	}
	return entries, nil
}
