package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// CachedOrders es una entrada de la caché de órdenes.
type CachedOrders struct {
	TypeID    int
	Orders    []domain.Order
	FetchedAt time.Time
}

// OrderCache es una caché plana de órdenes por type id con TTL.
type OrderCache interface {
	// Get devuelve la entrada guardada, found=false si no existe.
	// Una entrada caducada puede devolverse; usar Expired para decidir.
	Get(ctx context.Context, typeID int) (entry CachedOrders, found bool, err error)

	// Put guarda (o reemplaza) las órdenes de un type id.
	Put(ctx context.Context, entry CachedOrders) error

	// Expired devuelve true si la entrada ya no se debe servir.
	Expired(entry CachedOrders) bool

	// Close libera los recursos de la caché.
	Close() error
}
