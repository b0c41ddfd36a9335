package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Get obtiene el artículo del código; nil si no existe.
func (r *InventoryItemRepo) Get(ctx context.Context, code string) (*entity.InventoryItem, error) {
	query := `
		SELECT code, description, available_quantity, last_updated
		FROM inventory_items WHERE code = $1`
	it, err := scanItem(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetForUpdate toma un advisory lock transaccional por código y luego bloquea la fila
// (SELECT FOR UPDATE). El advisory lock cubre también el caso en que la fila aún no existe,
// así dos primeras confirmaciones del mismo código no compiten por el INSERT.
// Solo tiene efecto dentro de una transacción.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, code string) (*entity.InventoryItem, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, code); err != nil {
		return nil, fmt.Errorf("lock inventory code: %w", err)
	}
	query := `
		SELECT code, description, available_quantity, last_updated
		FROM inventory_items WHERE code = $1
		FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item for update: %w", err)
	}
	return it, nil
}

// Create inserta un artículo nuevo.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (code, description, available_quantity, last_updated)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, item.Code, item.Description, item.AvailableQuantity, item.LastUpdated)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create inventory item: código %s duplicado: %w", item.Code, err)
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update actualiza existencia y fecha; la descripción se conserva la del primer movimiento.
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET available_quantity = $2, last_updated = $3
		WHERE code = $1`
	tag, err := r.q.Exec(ctx, query, item.Code, item.AvailableQuantity, item.LastUpdated)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update inventory item: código %s inexistente", item.Code)
	}
	return nil
}

// List devuelve todos los artículos ordenados por código.
func (r *InventoryItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	query := `
		SELECT code, description, available_quantity, last_updated
		FROM inventory_items ORDER BY code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := row.Scan(&it.Code, &it.Description, &it.AvailableQuantity, &it.LastUpdated); err != nil {
		return nil, err
	}
	return &it, nil
}
