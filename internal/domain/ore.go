package domain

import (
	"fmt"
	"sort"
)

// DefaultPortionSize es el número de unidades que se refinan a la vez.
// Los yields de referencia vienen expresados por porción.
const DefaultPortionSize = 100

// Ore es un tipo de mineral en bruto que se puede comprar y refinar.
type Ore struct {
	TypeID int
	Name   string
	// Volume es el volumen en m³ de una unidad.
	Volume float64
	// Yield es lo que refina UNA unidad (no una porción).
	Yield Minerals
}

// Catalog es el conjunto inmutable de ores conocidos, indexado por id y nombre.
type Catalog struct {
	byID   map[int]Ore
	byName map[string]Ore
	sorted []Ore
}

// NewCatalog construye un catálogo. Falla si está vacío o si hay ids/nombres repetidos.
func NewCatalog(ores []Ore) (*Catalog, error) {
	if len(ores) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		byID:   make(map[int]Ore, len(ores)),
		byName: make(map[string]Ore, len(ores)),
		sorted: make([]Ore, 0, len(ores)),
	}
	for _, o := range ores {
		if _, dup := c.byID[o.TypeID]; dup {
			return nil, fmt.Errorf("%w: type id %d", ErrDuplicateOre, o.TypeID)
		}
		if _, dup := c.byName[o.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateOre, o.Name)
		}
		c.byID[o.TypeID] = o
		c.byName[o.Name] = o
		c.sorted = append(c.sorted, o)
	}
	sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].Name < c.sorted[j].Name })
	return c, nil
}

// ByID busca un ore por type id.
func (c *Catalog) ByID(id int) (Ore, bool) {
	o, ok := c.byID[id]
	return o, ok
}

// ByName busca un ore por nombre exacto.
func (c *Catalog) ByName(name string) (Ore, bool) {
	o, ok := c.byName[name]
	return o, ok
}

// Ores devuelve una copia de los ores ordenados por nombre.
func (c *Catalog) Ores() []Ore {
	out := make([]Ore, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// TypeIDs devuelve los type ids en el mismo orden que Ores.
func (c *Catalog) TypeIDs() []int {
	ids := make([]int, len(c.sorted))
	for i, o := range c.sorted {
		ids[i] = o.TypeID
	}
	return ids
}

// Len devuelve el número de ores.
func (c *Catalog) Len() int { return len(c.sorted) }
