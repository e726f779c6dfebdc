package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
)

// FileLoader implementa ports.CatalogLoader leyendo un fichero .json o .csv.
type FileLoader struct {
	Path string
}

var _ ports.CatalogLoader = FileLoader{}

// LoadCatalog lee el fichero según su extensión y construye el catálogo.
func (l FileLoader) LoadCatalog(_ context.Context) (*domain.Catalog, error) {
	var (
		ores []domain.Ore
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(l.Path)); ext {
	case ".json":
		ores, err = LoadJSON(l.Path)
	case ".csv":
		ores, err = LoadCSV(l.Path)
	default:
		return nil, fmt.Errorf("catalog.LoadCatalog: unsupported extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cat, err := domain.NewCatalog(ores)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadCatalog: %s: %w", l.Path, err)
	}
	return cat, nil
}
