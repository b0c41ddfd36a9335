package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

func TestEncodeDecodeItems_ConservaDecimales(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []*entity.InventoryItem{
		{Code: "A1", Description: "Bolt", AvailableQuantity: decimal.RequireFromString("-2.5"), LastUpdated: ts},
		nil,
		{Code: "B2", Description: "Nut", AvailableQuantity: decimal.RequireFromString("1234.000001"), LastUpdated: ts},
	}

	raw, err := encodeItems(items)
	require.NoError(t, err)

	got, err := decodeItems(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].Code)
	assert.True(t, got[0].AvailableQuantity.Equal(decimal.RequireFromString("-2.5")))
	assert.True(t, got[1].AvailableQuantity.Equal(decimal.RequireFromString("1234.000001")))
	assert.True(t, got[1].LastUpdated.Equal(ts))
}

func TestDecodeItems_JSONInvalido(t *testing.T) {
	_, err := decodeItems([]byte("{no"))
	require.Error(t, err)
}

func TestNewRedisClient_URLInvalida(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "http://no-es-redis")
	require.Error(t, err)
}

func TestInventoryCache_ServidorCaidoDevuelveError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewInventoryCache(client, 0)
	_, err := c.Generation(context.Background())
	require.Error(t, err)
	_, ok, err := c.GetInventory(context.Background(), 0)
	assert.False(t, ok)
	require.Error(t, err)
	require.Error(t, c.Invalidate(context.Background()))
}

func TestInventoryCache_ClavePorGeneracion(t *testing.T) {
	c := NewInventoryCache(nil, 0)
	assert.Equal(t, "stockdoc:inventory:v1:0", c.listKey(0))
	assert.Equal(t, "stockdoc:inventory:v1:7", c.listKey(7))
	assert.NotEqual(t, c.genKey, c.listKey(0))
}
