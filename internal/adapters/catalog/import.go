package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/shopspring/decimal"
)

// BaselineRefineRate es el refine rate de referencia para yields teóricos:
// skills 5/5/5, Tatara con rig T1 e implante RX-804.
const BaselineRefineRate = 0.8254

// gradeMultipliers son los bonus de yield de cada variante de grado,
// en el orden de names/types_compressed del volcado.
var gradeMultipliers = []string{"1.00", "1.05", "1.10", "1.15"}

// ImportOptions controla la generación del catálogo desde el volcado.
type ImportOptions struct {
	// RefineRate multiplica los yields del volcado. 0 = 1.0 (yields tal cual).
	RefineRate  float64
	PortionSize int
}

// Import convierte el volcado de ores en un catálogo de ores comprimidos:
// una entrada por variante de grado con yield = floor(minerales × bonus × rate)
// por porción.
func Import(r io.Reader, opts ImportOptions) ([]domain.Ore, error) {
	if opts.RefineRate <= 0 {
		opts.RefineRate = 1
	}
	if opts.PortionSize <= 0 {
		opts.PortionSize = domain.DefaultPortionSize
	}

	var dump []dumpEntry
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("catalog.Import: decode: %w", err)
	}

	rate := decimal.NewFromFloat(opts.RefineRate)
	portion := float64(opts.PortionSize)

	var ores []domain.Ore
	for _, entry := range dump {
		if len(entry.TypesCompressed) == 0 || len(entry.Names) == 0 {
			continue
		}
		base, err := domain.MineralsFromMap(entry.Minerals)
		if err != nil {
			return nil, fmt.Errorf("catalog.Import: %s: %w", entry.Names[0], err)
		}

		variants := min(len(entry.Names), len(entry.TypesCompressed), len(gradeMultipliers))
		for i := 0; i < variants; i++ {
			mult := decimal.RequireFromString(gradeMultipliers[i]).Mul(rate)
			var yield domain.Minerals
			for _, m := range domain.AllMinerals {
				perPortion := decimal.NewFromFloat(base[m]).Mul(mult).Floor()
				yield[m] = perPortion.InexactFloat64() / portion
			}
			ores = append(ores, domain.Ore{
				TypeID: entry.TypesCompressed[i],
				Name:   compressedName(entry.Names[0], entry.Names[i]),
				Volume: entry.VolumeCompressed,
				Yield:  yield,
			})
		}
	}

	slog.Debug("catalog imported", "base_ores", len(dump), "ores", len(ores), "refine_rate", opts.RefineRate)
	return ores, nil
}

// compressedName arma el nombre de mercado de una variante: el grado delante
// del ore base. Los grados de Dark Ochre sustituyen el "Dark".
func compressedName(base, grade string) string {
	switch {
	case grade == base:
		return "Compressed " + base
	case base == "Dark Ochre":
		return "Compressed " + grade + " Ochre"
	default:
		return "Compressed " + grade + " " + base
	}
}
