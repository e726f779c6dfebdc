package catalog

import "github.com/alejandrodnm/oreplan/internal/domain"

// oreJSON es una entrada del catálogo en disco. Los yields van por porción.
type oreJSON struct {
	Name   string `json:"name"`
	TypeID int    `json:"type_id,omitempty"`
	// ItemID es el nombre antiguo de type_id; se acepta al leer.
	ItemID      int             `json:"item_id,omitempty"`
	Volume      float64         `json:"volume"`
	PortionSize int             `json:"portion_size,omitempty"`
	RefinesTo   domain.Minerals `json:"refines_to"`
}

// dumpEntry es un ore base del volcado de referencia, con sus variantes
// de grado en el mismo orden en names y types_compressed.
type dumpEntry struct {
	Names            []string           `json:"names"`
	TypesCompressed  []int              `json:"types_compressed"`
	Minerals         map[string]float64 `json:"minerals"`
	VolumeCompressed float64            `json:"volume_compressed"`
}
