package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/alejandrodnm/oreplan/internal/ports"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implementa ports.OrderCache en memoria del proceso. Sirve para
// ejecuciones largas o tests; no sobrevive a un reinicio.
type MemoryCache struct {
	expiry
	items *gocache.Cache
}

var _ ports.OrderCache = (*MemoryCache)(nil)

// NewMemoryCache crea una caché en memoria. Las entradas caducadas se
// purgan cada ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	e := newExpiry(ttl)
	return &MemoryCache{expiry: e, items: gocache.New(e.ttl, e.ttl)}
}

func (c *MemoryCache) Get(_ context.Context, typeID int) (ports.CachedOrders, bool, error) {
	v, ok := c.items.Get(strconv.Itoa(typeID))
	if !ok {
		return ports.CachedOrders{TypeID: typeID}, false, nil
	}
	return v.(ports.CachedOrders), true, nil
}

// Put guarda la entrada con el tiempo de vida que le quede según FetchedAt.
func (c *MemoryCache) Put(_ context.Context, entry ports.CachedOrders) error {
	left := c.remaining(entry)
	if left <= 0 {
		c.items.Delete(strconv.Itoa(entry.TypeID))
		return nil
	}
	c.items.Set(strconv.Itoa(entry.TypeID), entry, left)
	return nil
}

// Len devuelve el número de entradas (puede incluir caducadas aún no purgadas).
func (c *MemoryCache) Len() int { return c.items.ItemCount() }

func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
