package ports

import (
	"context"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// MarketProvider obtiene las órdenes de venta de un ore en la estación configurada.
type MarketProvider interface {
	// FetchOrders devuelve todas las órdenes de venta del type id dado.
	// Las implementaciones HTTP paginan automáticamente.
	FetchOrders(ctx context.Context, typeID int) ([]domain.Order, error)
}
