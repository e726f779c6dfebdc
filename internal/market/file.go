package market

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
)

// FileProvider sirve órdenes guardadas en un fichero JSON (lista de
// domain.Order). Sirve para planificar sin red o reproducir una ejecución.
type FileProvider struct {
	byType map[int][]domain.Order
}

var _ ports.MarketProvider = (*FileProvider)(nil)

// LoadFileProvider lee el fichero de órdenes.
func LoadFileProvider(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("market.LoadFileProvider: %w", err)
	}
	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("market.LoadFileProvider: decode %q: %w", path, err)
	}

	p := &FileProvider{byType: make(map[int][]domain.Order)}
	for _, o := range orders {
		p.byType[o.TypeID] = append(p.byType[o.TypeID], o)
	}
	return p, nil
}

// FetchOrders devuelve las órdenes del fichero para el type id (o ninguna).
func (p *FileProvider) FetchOrders(_ context.Context, typeID int) ([]domain.Order, error) {
	return p.byType[typeID], nil
}
