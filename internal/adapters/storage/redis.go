package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "oreplan:orders:"

// RedisCache implementa ports.OrderCache sobre Redis. La clave caduca sola
// con el TTL de la caché, así que varias máquinas pueden compartir descargas.
type RedisCache struct {
	expiry
	client *redis.Client
}

var _ ports.OrderCache = (*RedisCache)(nil)

// NewRedisCache conecta con Redis y comprueba la conexión con un PING.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
		MaxRetries:  1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage.NewRedisCache: ping %s: %w", addr, err)
	}
	return &RedisCache{expiry: newExpiry(ttl), client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, typeID int) (ports.CachedOrders, bool, error) {
	data, err := c.client.Get(ctx, redisKey(typeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.CachedOrders{TypeID: typeID}, false, nil
	}
	if err != nil {
		return ports.CachedOrders{TypeID: typeID}, false, fmt.Errorf("storage.Get: type %d: %w", typeID, err)
	}
	entry, err := decodeEntry(data)
	if err != nil {
		return ports.CachedOrders{TypeID: typeID}, false, fmt.Errorf("storage.Get: type %d: %w", typeID, err)
	}
	return entry, true, nil
}

func (c *RedisCache) Put(ctx context.Context, entry ports.CachedOrders) error {
	left := c.remaining(entry)
	if left <= 0 {
		return c.client.Del(ctx, redisKey(entry.TypeID)).Err()
	}
	data, err := encodeEntry(entry)
	if err != nil {
		return fmt.Errorf("storage.Put: type %d: %w", entry.TypeID, err)
	}
	if err := c.client.Set(ctx, redisKey(entry.TypeID), data, left).Err(); err != nil {
		return fmt.Errorf("storage.Put: type %d: %w", entry.TypeID, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func redisKey(typeID int) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, typeID)
}

// redisEntry es el formato JSON guardado en Redis.
type redisEntry struct {
	TypeID    int            `json:"type_id"`
	FetchedAt time.Time      `json:"fetched_at"`
	Orders    []domain.Order `json:"orders"`
}

func encodeEntry(entry ports.CachedOrders) ([]byte, error) {
	return json.Marshal(redisEntry{TypeID: entry.TypeID, FetchedAt: entry.FetchedAt, Orders: entry.Orders})
}

func decodeEntry(data []byte) (ports.CachedOrders, error) {
	var r redisEntry
	if err := json.Unmarshal(data, &r); err != nil {
		return ports.CachedOrders{}, fmt.Errorf("decode entry: %w", err)
	}
	return ports.CachedOrders{TypeID: r.TypeID, FetchedAt: r.FetchedAt, Orders: r.Orders}, nil
}
