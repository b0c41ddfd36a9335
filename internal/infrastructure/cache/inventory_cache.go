package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockdoc-api/internal/application/inventory"
	"github.com/jhoicas/stockdoc-api/internal/domain/entity"
)

var _ inventory.InventoryCache = (*InventoryCache)(nil)

// Claves Redis: el listado se guarda por generación y Invalidate incrementa el contador.
const (
	InventoryKeyPrefix     = "stockdoc:inventory:v1:"
	InventoryGenerationKey = "stockdoc:inventory:v1:gen"
)

// InventoryCache guarda el listado de inventario en Redis con TTL.
// La confirmación de movimientos invalida tras el commit avanzando la generación;
// un listado escrito con una generación vieja ya no se lee.
type InventoryCache struct {
	client *redis.Client
	prefix string
	genKey string
	ttl    time.Duration
}

// NewInventoryCache construye la caché; ttl <= 0 usa 30 segundos.
func NewInventoryCache(client *redis.Client, ttl time.Duration) *InventoryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InventoryCache{
		client: client,
		prefix: InventoryKeyPrefix,
		genKey: InventoryGenerationKey,
		ttl:    ttl,
	}
}

type cachedItem struct {
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	LastUpdated       time.Time       `json:"last_updated"`
}

func (c *InventoryCache) listKey(gen int64) string {
	return c.prefix + strconv.FormatInt(gen, 10)
}

// Generation devuelve la generación vigente; 0 si nunca se invalidó.
func (c *InventoryCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generación: %w", err)
	}
	return gen, nil
}

// GetInventory devuelve (items, true, nil) en hit y (nil, false, nil) en miss.
func (c *InventoryCache) GetInventory(ctx context.Context, gen int64) ([]*entity.InventoryItem, bool, error) {
	key := c.listKey(gen)
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	items, err := decodeItems(raw)
	if err != nil {
		// Entrada corrupta: se trata como miss y se descarta.
		_ = c.client.Del(ctx, key).Err()
		return nil, false, err
	}
	return items, true, nil
}

// SetInventory guarda el listado bajo la generación gen.
func (c *InventoryCache) SetInventory(ctx context.Context, gen int64, items []*entity.InventoryItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.listKey(gen), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate avanza la generación; los listados anteriores expiran por TTL.
func (c *InventoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func encodeItems(items []*entity.InventoryItem) ([]byte, error) {
	out := make([]cachedItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, cachedItem{
			Code:              it.Code,
			Description:       it.Description,
			AvailableQuantity: it.AvailableQuantity,
			LastUpdated:       it.LastUpdated,
		})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("serializar inventario: %w", err)
	}
	return raw, nil
}

func decodeItems(raw []byte) ([]*entity.InventoryItem, error) {
	var in []cachedItem
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("deserializar inventario: %w", err)
	}
	items := make([]*entity.InventoryItem, 0, len(in))
	for _, c := range in {
		items = append(items, &entity.InventoryItem{
			Code:              c.Code,
			Description:       c.Description,
			AvailableQuantity: c.AvailableQuantity,
			LastUpdated:       c.LastUpdated,
		})
	}
	return items, nil
}
