package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Mineral identifica uno de los siete minerales que produce el refinado.
type Mineral int

const (
	Tritanium Mineral = iota
	Pyerite
	Mexallon
	Isogen
	Nocxium
	Zydrine
	Megacyte

	// NumMinerals es la dimensión fija del vector de minerales.
	NumMinerals = int(Megacyte) + 1
)

// AllMinerals es el orden canónico. Todo recorrido de minerales (aritmética,
// parseo del catálogo, construcción de restricciones) usa esta lista.
var AllMinerals = [NumMinerals]Mineral{
	Tritanium, Pyerite, Mexallon, Isogen, Nocxium, Zydrine, Megacyte,
}

var mineralNames = [NumMinerals]string{
	"tritanium", "pyerite", "mexallon", "isogen", "nocxium", "zydrine", "megacyte",
}

// String devuelve el nombre en minúsculas del mineral.
func (m Mineral) String() string {
	if m < 0 || int(m) >= NumMinerals {
		return fmt.Sprintf("mineral(%d)", int(m))
	}
	return mineralNames[m]
}

// mineralAliases son grafías que aparecen en datos de referencia antiguos.
var mineralAliases = map[string]Mineral{
	"noxcium": Nocxium,
}

// ParseMineral convierte un nombre (sin distinguir mayúsculas) en Mineral.
func ParseMineral(name string) (Mineral, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if m, ok := mineralAliases[n]; ok {
		return m, nil
	}
	for i, s := range mineralNames {
		if s == n {
			return Mineral(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMineral, name)
}

// Minerals es un vector de cantidades por mineral. Es un tipo valor:
// ninguna operación modifica sus operandos.
type Minerals [NumMinerals]float64

// NewMinerals construye un vector a partir de los valores en orden canónico.
// Los valores que falten quedan a cero.
func NewMinerals(values ...float64) Minerals {
	var v Minerals
	copy(v[:], values)
	return v
}

// MineralsFromMap construye un vector desde un map nombre → cantidad.
func MineralsFromMap(m map[string]float64) (Minerals, error) {
	var v Minerals
	for name, qty := range m {
		mineral, err := ParseMineral(name)
		if err != nil {
			return Minerals{}, err
		}
		v[mineral] = qty
	}
	return v, nil
}

// Get devuelve la cantidad del mineral dado.
func (v Minerals) Get(m Mineral) float64 { return v[m] }

// With devuelve una copia con el mineral m fijado a qty.
func (v Minerals) With(m Mineral, qty float64) Minerals {
	v[m] = qty
	return v
}

// Add suma componente a componente.
func (v Minerals) Add(o Minerals) Minerals {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub resta componente a componente.
func (v Minerals) Sub(o Minerals) Minerals {
	return v.Add(o.Scale(-1))
}

// Scale multiplica cada componente por s. Se admiten escalares negativos
// (restar un stash se expresa como Add(stash.Scale(-1))).
func (v Minerals) Scale(s float64) Minerals {
	for i := range v {
		v[i] *= s
	}
	return v
}

// Floor redondea cada componente hacia abajo al entero más cercano.
func (v Minerals) Floor() Minerals {
	for i := range v {
		v[i] = math.Floor(v[i])
	}
	return v
}

// ClampNegative devuelve una copia con los componentes negativos a cero.
func (v Minerals) ClampNegative() Minerals {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
	}
	return v
}

// Sum devuelve la suma de todos los componentes.
func (v Minerals) Sum() float64 {
	var total float64
	for _, q := range v {
		total += q
	}
	return total
}

// IsZero devuelve true si todos los componentes son cero.
func (v Minerals) IsZero() bool {
	return v == Minerals{}
}

// Covers devuelve true si v >= target - eps en todos los minerales.
func (v Minerals) Covers(target Minerals, eps float64) bool {
	for i := range v {
		if v[i] < target[i]-eps {
			return false
		}
	}
	return true
}

// Map devuelve el vector como map nombre → cantidad, omitiendo ceros.
func (v Minerals) Map() map[string]float64 {
	out := make(map[string]float64, NumMinerals)
	for _, m := range AllMinerals {
		if v[m] != 0 {
			out[m.String()] = v[m]
		}
	}
	return out
}

func (v Minerals) String() string {
	parts := make([]string, 0, NumMinerals)
	for _, m := range AllMinerals {
		parts = append(parts, fmt.Sprintf("%s=%g", m, v[m]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// MarshalJSON serializa como objeto {"tritanium": n, ...}.
func (v Minerals) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON acepta un objeto nombre → cantidad. Los nombres se comparan
// sin distinguir mayúsculas.
func (v *Minerals) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := MineralsFromMap(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
