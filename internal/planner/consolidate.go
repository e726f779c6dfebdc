package planner

// consolidate.go: agrupa las compras por tier en pocos lotes (multi-buy).
//
// Un multi-buy liquida todo el lote al precio más alto de sus tiers. Para cada ore
// se busca la partición de sus tiers en ≤ K grupos que minimiza
// Σ max(precio del grupo) × Σ cantidad del grupo.
//
// La búsqueda exhaustiva recorre todas las particiones de conjuntos (restricted
// growth strings), que crecen como los números de Bell: con 12 tiers y K=3 son
// ~88k candidatas, con 20 tiers ya son ~5·10⁸. Por encima de ExhaustiveLimit se
// usa una DP sobre cortes contiguos en orden de precio, que da el mismo óptimo:
// en una partición óptima cada grupo contiene todos los tiers con precio ≤ su
// máximo que no estén en un grupo más barato.

import (
	"log/slog"
	"math"
	"sort"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

const (
	// DefaultMaxRounds es el número máximo de lotes por ore.
	DefaultMaxRounds       = 3
	defaultExhaustiveLimit = 12
	// unitSlack evita que el ruido del solver (10.0000000001) compre una unidad extra.
	unitSlack = 1e-7
)

// ConsolidateOptions controla la consolidación en lotes.
type ConsolidateOptions struct {
	MaxRounds int
	// ExhaustiveLimit es el máximo de tiers por ore para la búsqueda exhaustiva.
	ExhaustiveLimit int
}

// DefaultConsolidateOptions devuelve la configuración por defecto (3 rondas).
func DefaultConsolidateOptions() ConsolidateOptions {
	return ConsolidateOptions{MaxRounds: DefaultMaxRounds, ExhaustiveLimit: defaultExhaustiveLimit}
}

// TierQty es una compra entera a un precio.
type TierQty struct {
	Price    float64
	Quantity int64
}

// Partition es un conjunto de grupos de tiers.
type Partition [][]TierQty

// Cost devuelve Σ max(precio) × Σ cantidad por grupo.
func (p Partition) Cost() float64 {
	var total float64
	for _, g := range p {
		price, qty := groupTotals(g)
		total += price * float64(qty)
	}
	return total
}

// Lots convierte la partición en lotes del ore dado, por precio ascendente.
func (p Partition) Lots(ore string) []domain.Lot {
	lots := make([]domain.Lot, 0, len(p))
	for _, g := range p {
		price, qty := groupTotals(g)
		lots = append(lots, domain.Lot{Ore: ore, Price: price, Quantity: qty})
	}
	sort.SliceStable(lots, func(i, j int) bool { return lots[i].Price < lots[j].Price })
	return lots
}

func groupTotals(g []TierQty) (maxPrice float64, qty int64) {
	for _, t := range g {
		if t.Price > maxPrice {
			maxPrice = t.Price
		}
		qty += t.Quantity
	}
	return maxPrice, qty
}

// CeilUnits redondea una cantidad fraccional a unidades enteras hacia arriba.
func CeilUnits(q float64) int64 {
	if q <= 0 {
		return 0
	}
	return int64(math.Ceil(q - unitSlack))
}

// Consolidate agrupa las compras de cada ore en ≤ MaxRounds lotes.
// Los ores sin cantidad no aparecen en el resultado.
func Consolidate(purchases []domain.TierPurchase, opts ConsolidateOptions) map[string][]domain.Lot {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.ExhaustiveLimit <= 0 {
		opts.ExhaustiveLimit = defaultExhaustiveLimit
	}

	byOre := make(map[string]map[float64]int64)
	for _, p := range purchases {
		units := CeilUnits(p.Quantity)
		if units == 0 {
			continue
		}
		if byOre[p.Tier.Ore] == nil {
			byOre[p.Tier.Ore] = make(map[float64]int64)
		}
		byOre[p.Tier.Ore][p.Tier.Price] += units
	}

	lots := make(map[string][]domain.Lot, len(byOre))
	for ore, prices := range byOre {
		tiers := make([]TierQty, 0, len(prices))
		for price, qty := range prices {
			tiers = append(tiers, TierQty{Price: price, Quantity: qty})
		}
		if len(tiers) > opts.ExhaustiveLimit {
			slog.Warn("too many price tiers for exhaustive lot search, using contiguous split",
				"ore", ore,
				"tiers", len(tiers),
				"limit", opts.ExhaustiveLimit,
			)
		}
		lots[ore] = BestPartition(tiers, opts.MaxRounds, opts.ExhaustiveLimit).Lots(ore)
	}
	return lots
}

// BestPartition devuelve la partición de coste mínimo de tiers en ≤ k grupos.
// Los tiers con cantidad 0 se descartan. Empates: gana la primera encontrada
// en el orden de enumeración (tiers por precio ascendente).
func BestPartition(tiers []TierQty, k, exhaustiveLimit int) Partition {
	sorted := make([]TierQty, 0, len(tiers))
	for _, t := range tiers {
		if t.Quantity > 0 {
			sorted = append(sorted, t)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	if k <= 0 {
		k = 1
	}
	if exhaustiveLimit > 0 && len(sorted) > exhaustiveLimit {
		return contiguousPartition(sorted, k)
	}
	return exhaustivePartition(sorted, k)
}

// exhaustivePartition enumera todas las particiones en ≤ k bloques.
// assign[i] es el bloque del tier i; assign[i] ≤ max(assign[:i])+1.
func exhaustivePartition(tiers []TierQty, k int) Partition {
	n := len(tiers)
	assign := make([]int, n)
	best := make([]int, n)
	bestCost := math.Inf(1)

	maxPrice := make([]float64, k)
	qty := make([]int64, k)

	var walk func(i, blocks int)
	walk = func(i, blocks int) {
		if i == n {
			var cost float64
			for b := 0; b < blocks; b++ {
				maxPrice[b], qty[b] = 0, 0
			}
			for j, b := range assign {
				if tiers[j].Price > maxPrice[b] {
					maxPrice[b] = tiers[j].Price
				}
				qty[b] += tiers[j].Quantity
			}
			for b := 0; b < blocks; b++ {
				cost += maxPrice[b] * float64(qty[b])
			}
			if cost < bestCost {
				bestCost = cost
				copy(best, assign)
			}
			return
		}
		for b := 0; b <= blocks && b < k; b++ {
			assign[i] = b
			next := blocks
			if b == blocks {
				next++
			}
			walk(i+1, next)
		}
	}
	walk(0, 0)

	return buildPartition(tiers, best)
}

// contiguousPartition resuelve el mismo problema con cortes contiguos sobre los
// tiers ordenados por precio: dp[j][i] = coste mínimo de los i primeros en j grupos.
func contiguousPartition(tiers []TierQty, k int) Partition {
	n := len(tiers)
	if k > n {
		k = n
	}
	prefix := make([]int64, n+1)
	for i, t := range tiers {
		prefix[i+1] = prefix[i] + t.Quantity
	}
	// el grupo [l, i) paga el precio de su último tier (el más caro)
	cost := func(l, i int) float64 {
		return tiers[i-1].Price * float64(prefix[i]-prefix[l])
	}

	inf := math.Inf(1)
	dp := make([][]float64, k+1)
	cut := make([][]int, k+1)
	for j := range dp {
		dp[j] = make([]float64, n+1)
		cut[j] = make([]int, n+1)
		for i := range dp[j] {
			dp[j][i] = inf
		}
	}
	dp[0][0] = 0
	for j := 1; j <= k; j++ {
		for i := j; i <= n; i++ {
			for l := j - 1; l < i; l++ {
				if dp[j-1][l] == inf {
					continue
				}
				if c := dp[j-1][l] + cost(l, i); c < dp[j][i] {
					dp[j][i] = c
					cut[j][i] = l
				}
			}
		}
	}

	bestJ := 1
	for j := 2; j <= k; j++ {
		if dp[j][n] < dp[bestJ][n] {
			bestJ = j
		}
	}

	assign := make([]int, n)
	for j, i := bestJ, n; j > 0; j-- {
		l := cut[j][i]
		for x := l; x < i; x++ {
			assign[x] = j - 1
		}
		i = l
	}
	return buildPartition(tiers, assign)
}

func buildPartition(tiers []TierQty, assign []int) Partition {
	blocks := 0
	for _, b := range assign {
		if b+1 > blocks {
			blocks = b + 1
		}
	}
	p := make(Partition, blocks)
	for i, b := range assign {
		p[b] = append(p[b], tiers[i])
	}
	return p
}
