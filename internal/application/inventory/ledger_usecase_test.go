package inventory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"5", "5", false},
		{" 10,5 ", "10.5", false},
		{"0.001", "0.001", false},
		{"0", "", true},
		{"-3", "", true},
		{"abc", "", true},
		{"", "", true},
		{"1.000,5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := inventory.ParseQuantity(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestStage_CodigoLargoSeAceptaYConfirma(t *testing.T) {
	e := newEngine(t, true)
	ctx := context.Background()
	code := "COD-" + strings.Repeat("9", 200)

	id := e.stage(t, code, "3", entity.MovementTypeInbound)
	res, err := e.confirm.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, code, res.Item.Code)

	item, err := e.query.GetItem(ctx, code)
	require.NoError(t, err)
	assert.True(t, item.AvailableQuantity.Equal(dec("3")))
}

func TestStage_ValidaEntrada(t *testing.T) {
	e := newEngine(t, true)
	ctx := context.Background()

	_, err := e.ledger.Stage(ctx, entity.LineItem{Code: "A1", Quantity: "1"}, "TRANSFER")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.Stage(ctx, entity.LineItem{Code: "  ", Quantity: "1"}, entity.MovementTypeInbound)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.Stage(ctx, entity.LineItem{Code: "A1", Quantity: "0"}, entity.MovementTypeInbound)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	pending, err := e.ledger.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStage_RegistraPendiente(t *testing.T) {
	e := newEngine(t, true)
	ctx := context.Background()

	id, err := e.ledger.Stage(ctx, entity.LineItem{Code: " A1 ", Description: "Bolt", Quantity: "2,5"}, entity.MovementTypeInbound)
	require.NoError(t, err)

	mov, err := e.ledger.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A1", mov.Code)
	assert.Equal(t, "Bolt", mov.Description)
	assert.True(t, mov.Quantity.Equal(dec("2.5")))
	assert.Equal(t, entity.MovementStatusPending, mov.Status)
	assert.Nil(t, mov.ConfirmedAt)

	_, err = e.query.GetItem(ctx, "A1")
	require.ErrorIs(t, err, domain.ErrNotFound, "registrar no toca el inventario")
}

func TestListPending_MasRecientePrimero(t *testing.T) {
	e := newEngine(t, true)
	ctx := context.Background()

	first := e.stage(t, "A1", "1", entity.MovementTypeInbound)
	time.Sleep(2 * time.Millisecond)
	second := e.stage(t, "B2", "1", entity.MovementTypeInbound)
	time.Sleep(2 * time.Millisecond)
	third := e.stage(t, "C3", "1", entity.MovementTypeOutbound)

	_, err := e.confirm.Confirm(ctx, second)
	require.NoError(t, err)

	pending, err := e.ledger.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, third, pending[0].ID)
	assert.Equal(t, first, pending[1].ID)
}

func TestStageBatch_TodoONada(t *testing.T) {
	e := newEngine(t, true)
	ctx := context.Background()

	_, err := e.ledger.StageBatch(ctx, nil, entity.MovementTypeInbound)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ledger.StageBatch(ctx, []entity.LineItem{
		{Code: "A1", Quantity: "1"},
		{Code: "B2", Quantity: "x"},
	}, entity.MovementTypeInbound)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	pending, err := e.ledger.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "un renglón inválido descarta el lote completo")

	ids, err := e.ledger.StageBatch(ctx, []entity.LineItem{
		{Code: "A1", Quantity: "1"},
		{Code: "B2", Quantity: "3,25"},
	}, entity.MovementTypeOutbound)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	pending, err = e.ledger.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestGet_IDDesconocido(t *testing.T) {
	e := newEngine(t, true)
	_, err := e.ledger.Get(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.ledger.Get(context.Background(), "0190a6f2-0000-7000-8000-000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
