package repository

import (
	"context"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

// InventoryItemRepository puerto del agregado de existencias por código.
// Las mutaciones solo ocurren dentro de la transacción de confirmación.
type InventoryItemRepository interface {
	Get(ctx context.Context, code string) (*entity.InventoryItem, error)
	// GetForUpdate serializa el acceso por código (exista o no la fila) y devuelve el
	// artículo bloqueado, o nil si el código aún no existe.
	GetForUpdate(ctx context.Context, code string) (*entity.InventoryItem, error)
	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem) error
	// List devuelve todos los artículos ordenados por código.
	List(ctx context.Context) ([]*entity.InventoryItem, error)
}
