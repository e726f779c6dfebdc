// Package market sirve órdenes de mercado a través de una caché con TTL.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
)

// CachedProvider envuelve un MarketProvider: las entradas frescas salen de la
// caché y las caducadas o ausentes se descargan y se guardan.
type CachedProvider struct {
	next  ports.MarketProvider
	cache ports.OrderCache
	now   func() time.Time
}

var _ ports.MarketProvider = (*CachedProvider)(nil)

// NewCachedProvider crea el provider. cache no puede ser nil.
func NewCachedProvider(next ports.MarketProvider, cache ports.OrderCache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, now: time.Now}
}

// FetchOrders devuelve las órdenes de un type id. Un fallo de lectura o
// escritura de la caché se registra y no interrumpe la descarga.
func (p *CachedProvider) FetchOrders(ctx context.Context, typeID int) ([]domain.Order, error) {
	entry, found, err := p.cache.Get(ctx, typeID)
	switch {
	case err != nil:
		slog.Warn("order cache read failed", "type_id", typeID, "err", err)
	case found && !p.cache.Expired(entry):
		slog.Debug("order cache hit", "type_id", typeID, "age", p.now().Sub(entry.FetchedAt).Round(time.Second))
		return entry.Orders, nil
	}

	orders, err := p.next.FetchOrders(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("market.FetchOrders: %w", err)
	}

	fresh := ports.CachedOrders{TypeID: typeID, Orders: orders, FetchedAt: p.now().UTC()}
	if err := p.cache.Put(ctx, fresh); err != nil {
		slog.Warn("order cache write failed", "type_id", typeID, "err", err)
	}
	return orders, nil
}
