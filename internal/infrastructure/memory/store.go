// Package memory implementa los puertos de persistencia en memoria.
//
// Cada transacción trabaja sobre una copia del estado y la publica solo al terminar sin error,
// con el mutex del Store tomado durante toda la transacción (aislamiento serializable).
// Pensado para desarrollo (STORE_DRIVER=memory) y pruebas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	movements map[string]movementRow
	items     map[string]itemRow
	log       []logRow
	nextLogID int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: &state{
		movements: make(map[string]movementRow),
		items:     make(map[string]itemRow),
		nextLogID: 1,
	}}
}

func (s *state) clone() *state {
	c := &state{
		movements: make(map[string]movementRow, len(s.movements)),
		items:     make(map[string]itemRow, len(s.items)),
		log:       make([]logRow, len(s.log)),
		nextLogID: s.nextLogID,
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	copy(c.log, s.log)
	return c
}

// view ejecuta fn sobre el estado de la tx (tx != nil, lock ya tomado) o sobre el estado
// publicado tomando el lock.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Movements devuelve el repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{store: s} }

// Items devuelve el repositorio de artículos fuera de transacción.
func (s *Store) Items() *InventoryItemRepo { return &InventoryItemRepo{store: s} }

// OperationLog devuelve el repositorio de auditoría fuera de transacción.
func (s *Store) OperationLog() *OperationLogRepo { return &OperationLogRepo{store: s} }

// TxRunner ejecuta callbacks con repositorios atados a una copia del estado.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run publica los cambios de fn solo si devuelve nil.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.InventoryItemRepository,
	logRepo repository.OperationLogRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.store.state.clone()
	if err := fn(
		&MovementRepo{store: r.store, tx: work},
		&InventoryItemRepo{store: r.store, tx: work},
		&OperationLogRepo{store: r.store, tx: work},
	); err != nil {
		return err
	}
	r.store.state = work
	return nil
}
