// Package catalog carga y genera el catálogo de ores.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ReadJSON lee un catálogo JSON (lista de ores con yields por porción) y
// devuelve los ores con yield por unidad.
func ReadJSON(r io.Reader) ([]domain.Ore, error) {
	var raw []oreJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog.ReadJSON: decode: %w", err)
	}

	ores := make([]domain.Ore, 0, len(raw))
	for i, o := range raw {
		id := o.TypeID
		if id == 0 {
			id = o.ItemID
		}
		if o.Name == "" || id == 0 {
			return nil, fmt.Errorf("catalog.ReadJSON: entry %d: missing name or type id", i)
		}
		portion := o.PortionSize
		if portion <= 0 {
			portion = domain.DefaultPortionSize
		}
		ores = append(ores, domain.Ore{
			TypeID: id,
			Name:   o.Name,
			Volume: o.Volume,
			Yield:  o.RefinesTo.Scale(1 / float64(portion)),
		})
	}
	return ores, nil
}

// LoadJSON lee un catálogo JSON desde disco.
func LoadJSON(path string) ([]domain.Ore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadJSON: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON escribe los ores en el formato de ReadJSON, con yields por
// porción de portionSize unidades.
func WriteJSON(w io.Writer, ores []domain.Ore, portionSize int) error {
	if portionSize <= 0 {
		portionSize = domain.DefaultPortionSize
	}
	out := make([]oreJSON, 0, len(ores))
	for _, o := range ores {
		out = append(out, oreJSON{
			Name:        o.Name,
			TypeID:      o.TypeID,
			Volume:      o.Volume,
			PortionSize: portionSize,
			RefinesTo:   perPortion(o.Yield, portionSize),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("catalog.WriteJSON: %w", err)
	}
	return nil
}

// perPortion pasa un yield por unidad a por porción sin arrastrar el ruido
// de la división (3.3 × 100 = 330, no 329.99999999999994).
func perPortion(y domain.Minerals, portionSize int) domain.Minerals {
	var out domain.Minerals
	p := decimal.NewFromInt(int64(portionSize))
	for _, m := range domain.AllMinerals {
		out[m] = decimal.NewFromFloat(y[m]).Mul(p).Round(6).InexactFloat64()
	}
	return out
}
