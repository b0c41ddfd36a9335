package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
	"github.com/jhoicas/stockdoc-api/pkg/config"
)

// Pruebas contra una base real: se omiten si DATABASE_URL no está definido.

type pgEngine struct {
	pool    *pgxpool.Pool
	ledger  *inventory.LedgerUseCase
	confirm *inventory.ConfirmMovementUseCase
}

func newPgEngine(t *testing.T) *pgEngine {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido; se omiten las pruebas de integración con PostgreSQL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = Migrate(ctx, pool)
	require.NoError(t, err)

	tx := NewTxRunner(pool)
	return &pgEngine{
		pool:    pool,
		ledger:  inventory.NewLedgerUseCase(tx, NewMovementRepository(pool)),
		confirm: inventory.NewConfirmMovementUseCase(tx, nil, nil, inventory.ConfirmOptions{AllowNegativeNewItem: true}),
	}
}

// uniqueCode evita colisiones con datos de ejecuciones anteriores.
func uniqueCode(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// signedSum suma ±cantidad de los movimientos CONFIRMED del código.
func (e *pgEngine) signedSum(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	var sum decimal.Decimal
	err := e.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE WHEN movement_type = 'INBOUND' THEN quantity ELSE -quantity END), 0)
		FROM movements WHERE code = $1 AND status = 'CONFIRMED'`, code).Scan(&sum)
	require.NoError(t, err)
	return sum
}

func (e *pgEngine) available(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	item, err := NewInventoryItemRepository(e.pool).Get(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.AvailableQuantity
}

func (e *pgEngine) logCount(t *testing.T, query string, arg any) int {
	t.Helper()
	var n int
	require.NoError(t, e.pool.QueryRow(context.Background(), query, arg).Scan(&n))
	return n
}

func TestPostgres_ConfirmacionConcurrenteMismoCodigo(t *testing.T) {
	e := newPgEngine(t)
	ctx := context.Background()
	code := uniqueCode("CONC")

	const n = 30
	items := make([]entity.LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, entity.LineItem{Code: code, Description: "perno", Quantity: "2"})
	}
	inbound, err := e.ledger.StageBatch(ctx, items, entity.MovementTypeInbound)
	require.NoError(t, err)
	outbound, err := e.ledger.StageBatch(ctx, items[:n/3], entity.MovementTypeOutbound)
	require.NoError(t, err)
	ids := append(inbound, outbound...)

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.confirm.Confirm(ctx, id)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	want := decimal.NewFromInt(2 * (n - n/3))
	assert.True(t, e.available(t, code).Equal(want), "existencia %s, esperado %s", e.available(t, code), want)
	assert.True(t, e.available(t, code).Equal(e.signedSum(t, code)))

	assert.Equal(t, len(ids), e.logCount(t, `SELECT COUNT(*) FROM operation_log WHERE code = $1`, code))
	assert.Equal(t, 1, e.logCount(t, `SELECT COUNT(*) FROM operation_log WHERE code = $1 AND operation_type = 'NEW_ITEM'`, code))
	for _, id := range ids {
		assert.Equal(t, 1, e.logCount(t, `SELECT COUNT(*) FROM operation_log WHERE movement_id = $1`, id))
	}
}

func TestPostgres_DobleConfirmacionConcurrenteExactamenteUnaVez(t *testing.T) {
	e := newPgEngine(t)
	ctx := context.Background()
	code := uniqueCode("ONCE")

	id, err := e.ledger.Stage(ctx, entity.LineItem{Code: code, Quantity: "7"}, entity.MovementTypeInbound)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.confirm.Confirm(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrNotFoundOrAlreadyConfirmed):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)
	assert.True(t, e.available(t, code).Equal(decimal.NewFromInt(7)))
	assert.True(t, e.available(t, code).Equal(e.signedSum(t, code)))
	assert.Equal(t, 1, e.logCount(t, `SELECT COUNT(*) FROM operation_log WHERE movement_id = $1`, id))
}

func TestPostgres_GuardasDeConfirmacionYRegistro(t *testing.T) {
	e := newPgEngine(t)
	ctx := context.Background()
	code := uniqueCode("GUARD")

	id, err := e.ledger.Stage(ctx, entity.LineItem{Code: code, Quantity: "1"}, entity.MovementTypeInbound)
	require.NoError(t, err)
	res, err := e.confirm.Confirm(ctx, id)
	require.NoError(t, err)

	movRepo := NewMovementRepository(e.pool)
	err = movRepo.MarkConfirmed(ctx, id, time.Now())
	require.ErrorIs(t, err, domain.ErrNotFoundOrAlreadyConfirmed)

	dup := *res.LogEntry
	err = NewOperationLogRepository(e.pool).Append(ctx, &dup)
	require.ErrorIs(t, err, domain.ErrNotFoundOrAlreadyConfirmed)

	_, err = e.confirm.Confirm(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFoundOrAlreadyConfirmed)
}

func TestPostgres_CodigoLargo(t *testing.T) {
	e := newPgEngine(t)
	ctx := context.Background()
	code := uniqueCode(strings.Repeat("L", 120))

	id, err := e.ledger.Stage(ctx, entity.LineItem{Code: code, Quantity: "4"}, entity.MovementTypeOutbound)
	require.NoError(t, err)
	_, err = e.confirm.Confirm(ctx, id)
	require.NoError(t, err)
	assert.True(t, e.available(t, code).Equal(decimal.NewFromInt(-4)))
}
