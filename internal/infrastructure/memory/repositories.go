package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository      = (*MovementRepo)(nil)
	_ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)
	_ repository.OperationLogRepository  = (*OperationLogRepo)(nil)
)

// Filas almacenadas por valor; los repositorios siempre devuelven copias.
type (
	movementRow entity.Movement
	itemRow     entity.InventoryItem
	logRow      entity.OperationLogEntry
)

// MovementRepo movimientos en memoria.
type MovementRepo struct {
	store *Store
	tx    *state
}

func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.Status == "" {
		movement.Status = entity.MovementStatusPending
	}
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.movements[movement.ID]; ok {
			return fmt.Errorf("create movement: id duplicado %s", movement.ID)
		}
		st.movements[movement.ID] = movementRow(*movement)
		return nil
	})
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.store.view(r.tx, func(st *state) error {
		if row, ok := st.movements[id]; ok {
			m := entity.Movement(row)
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListPending(ctx context.Context) ([]*entity.Movement, error) {
	var list []*entity.Movement
	err := r.store.view(r.tx, func(st *state) error {
		for _, row := range st.movements {
			if row.Status == entity.MovementStatusPending {
				m := entity.Movement(row)
				list = append(list, &m)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, err
}

// GetPendingForUpdate dentro de una tx el lock del Store ya serializa el acceso.
func (r *MovementRepo) GetPendingForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil || m == nil || !m.IsPending() {
		return nil, err
	}
	return m, nil
}

func (r *MovementRepo) MarkConfirmed(ctx context.Context, id string, confirmedAt time.Time) error {
	return r.store.view(r.tx, func(st *state) error {
		row, ok := st.movements[id]
		if !ok || row.Status != entity.MovementStatusPending {
			return fmt.Errorf("mark confirmed %s: %w", id, domain.ErrNotFoundOrAlreadyConfirmed)
		}
		at := confirmedAt
		row.Status = entity.MovementStatusConfirmed
		row.ConfirmedAt = &at
		st.movements[id] = row
		return nil
	})
}

// InventoryItemRepo artículos en memoria.
type InventoryItemRepo struct {
	store *Store
	tx    *state
}

func (r *InventoryItemRepo) Get(ctx context.Context, code string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.store.view(r.tx, func(st *state) error {
		if row, ok := st.items[code]; ok {
			it := entity.InventoryItem(row)
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.Get(ctx, code)
}

func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.items[item.Code]; ok {
			return fmt.Errorf("create inventory item: código duplicado %s", item.Code)
		}
		st.items[item.Code] = itemRow(*item)
		return nil
	})
}

func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.items[item.Code]; !ok {
			return fmt.Errorf("update inventory item: código inexistente %s", item.Code)
		}
		st.items[item.Code] = itemRow(*item)
		return nil
	})
}

func (r *InventoryItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	err := r.store.view(r.tx, func(st *state) error {
		for _, row := range st.items {
			it := entity.InventoryItem(row)
			list = append(list, &it)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, err
}

// OperationLogRepo registro de auditoría en memoria (append-only).
type OperationLogRepo struct {
	store *Store
	tx    *state
}

func (r *OperationLogRepo) Append(ctx context.Context, entry *entity.OperationLogEntry) error {
	return r.store.view(r.tx, func(st *state) error {
		entry.ID = st.nextLogID
		st.nextLogID++
		st.log = append(st.log, logRow(*entry))
		return nil
	})
}

func (r *OperationLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.OperationLogEntry, error) {
	var list []*entity.OperationLogEntry
	err := r.store.view(r.tx, func(st *state) error {
		for i := len(st.log) - 1; i >= 0 && (limit <= 0 || len(list) < limit); i-- {
			e := entity.OperationLogEntry(st.log[i])
			list = append(list, &e)
		}
		return nil
	})
	return list, err
}

// SumConfirmed recalcula la suma con signo de los movimientos confirmados de un código.
// Sirve para verificar el invariante del agregado.
func (s *Store) SumConfirmed(code string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, row := range s.state.movements {
		m := entity.Movement(row)
		if m.Code == code && m.Status == entity.MovementStatusConfirmed {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum
}
