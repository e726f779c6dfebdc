package ports

import (
	"context"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// CatalogLoader carga el catálogo de ores desde datos de referencia.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)
}
