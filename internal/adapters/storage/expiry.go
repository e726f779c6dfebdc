package storage

import (
	"time"

	"github.com/alejandrodnm/oreplan/internal/ports"
)

// DefaultTTL es lo que vive una entrada de la caché de órdenes.
const DefaultTTL = time.Hour

// expiry implementa ports.OrderCache.Expired para todos los backends.
type expiry struct {
	ttl time.Duration
	now func() time.Time
}

func newExpiry(ttl time.Duration) expiry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return expiry{ttl: ttl, now: time.Now}
}

// Expired devuelve true si la entrada tiene ttl o más de antigüedad.
func (e expiry) Expired(entry ports.CachedOrders) bool {
	return e.now().Sub(entry.FetchedAt) >= e.ttl
}

// remaining es el tiempo de vida que le queda a una entrada (≤ 0 si caducó).
func (e expiry) remaining(entry ports.CachedOrders) time.Duration {
	return e.ttl - e.now().Sub(entry.FetchedAt)
}
