package domain

import (
	"sort"
	"time"
)

// SolveStatus es el resultado del solver.
type SolveStatus int

const (
	StatusOptimal    SolveStatus = iota // óptimo demostrado
	StatusFeasible                      // cumple el target pero sin garantía de mínimo coste
	StatusInfeasible                    // el stock no alcanza
	StatusTimeout                       // superó el tiempo máximo
	StatusAbnormal                      // fallo numérico sin plan utilizable
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "ABNORMAL"
	}
}

// Usable devuelve true si el status produce un plan de compra.
func (s SolveStatus) Usable() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Lot es una compra real (multi-buy) de un ore a un único precio de liquidación.
type Lot struct {
	Ore      string
	Price    float64
	Quantity int64
}

// Cost devuelve precio × cantidad.
func (l Lot) Cost() float64 {
	return l.Price * float64(l.Quantity)
}

// Plan es el resultado completo de una ejecución del planner.
type Plan struct {
	RunID       string
	GeneratedAt time.Time
	Status      SolveStatus
	RefineRate  float64

	// Purchases son las compras fraccionales por tier (solo cantidades > 0).
	Purchases []TierPurchase
	// Units es la compra redondeada hacia arriba por ore.
	Units map[string]int64
	// Lots son los lotes consolidados por ore, ordenados por precio ascendente.
	Lots map[string][]Lot
	// Rounds alinea el i-ésimo lote de cada ore en la ronda i.
	Rounds [][]Lot

	// TotalPrice es Σ precio×cantidad fraccional a precio de tier.
	TotalPrice float64
	// LotPrice es lo que cuestan los lotes a su precio de liquidación.
	LotPrice    float64
	TotalVolume float64

	Target Minerals
	// Yield es lo que refinan las unidades redondeadas (Units).
	Yield  Minerals
	Excess Minerals
}

// OreNames devuelve los ores con lotes, ordenados por nombre.
func (p Plan) OreNames() []string {
	names := make([]string, 0, len(p.Lots))
	for name := range p.Lots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AlignRounds coloca el i-ésimo lote de cada ore en la ronda i.
// Los ores se recorren por nombre para que la salida sea determinista.
func AlignRounds(lots map[string][]Lot) [][]Lot {
	names := make([]string, 0, len(lots))
	depth := 0
	for name, ls := range lots {
		names = append(names, name)
		if len(ls) > depth {
			depth = len(ls)
		}
	}
	sort.Strings(names)

	rounds := make([][]Lot, depth)
	for i := 0; i < depth; i++ {
		for _, name := range names {
			if i < len(lots[name]) {
				rounds[i] = append(rounds[i], lots[name][i])
			}
		}
	}
	return rounds
}
