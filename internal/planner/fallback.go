package planner

import (
	"sort"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// greedyCover construye un plan que cubre el target mineral a mineral, comprando
// primero el tier con menor precio por unidad del mineral pendiente.
// No es óptimo; solo se usa cuando el simplex no da una solución fiable.
func greedyCover(p *Problem) ([]float64, bool) {
	qty := make([]float64, len(p.Tiers))
	var got domain.Minerals

	for _, m := range p.active {
		if got[m] >= p.Target[m] {
			continue
		}

		candidates := make([]int, 0, len(p.Tiers))
		for i := range p.Tiers {
			if p.Yields[i][m] > 0 && qty[i] < p.Tiers[i].Available {
				candidates = append(candidates, i)
			}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			ia, ib := candidates[a], candidates[b]
			return p.Tiers[ia].Price/p.Yields[ia][m] < p.Tiers[ib].Price/p.Yields[ib][m]
		})

		for _, i := range candidates {
			need := p.Target[m] - got[m]
			if need <= 0 {
				break
			}
			take := min(p.Tiers[i].Available-qty[i], need/p.Yields[i][m])
			qty[i] += take
			got = got.Add(p.Yields[i].Scale(take))
		}
	}

	return qty, p.Feasible(qty)
}
