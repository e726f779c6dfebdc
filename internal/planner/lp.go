package planner

// lp.go: construcción y resolución del LP de compra.
//
//	min  Σ_b price_b · x_b
//	s.a. Σ_b yield_b[m] · x_b ≥ target[m]   para cada mineral m con target > 0
//	     0 ≤ x_b ≤ available_b
//
// gonum resuelve en forma estándar (A·x = b, x ≥ 0), así que cada cota superior
// lleva su holgura u_b y cada restricción de mineral su excedente s_m:
//
//	x_b + u_b         = available_b
//	Σ y·x_b   − s_m   = target[m]
//
// Cada fila tiene una columna propia (u_b o s_m), así que A tiene rango completo.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	defaultRefineRate = 1.0
	defaultTolerance  = 1e-10
	defaultTimeout    = 30 * time.Second

	// zeroQty: por debajo de esto una cantidad del solver se considera 0 exacto.
	zeroQty = 1e-9
	// coverEps es la holgura relativa al verificar que la solución cubre el target.
	coverEps = 1e-6
	// floorSlack absorbe el error de float al pasar de yield por unidad a por porción.
	floorSlack = 1e-9
)

// SolverOptions controla la construcción y resolución del LP.
type SolverOptions struct {
	// RefineRate multiplica todos los yields del catálogo (1.0 = yields tal cual).
	RefineRate float64
	// FloorYields redondea hacia abajo el yield por porción tras aplicar RefineRate,
	// igual que hace el import del catálogo.
	FloorYields bool
	PortionSize int
	Tolerance   float64
	// Timeout es el tiempo máximo de pared del solve. 0 = sin límite.
	Timeout time.Duration
}

// DefaultSolverOptions devuelve opciones sensatas para producción.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		RefineRate:  defaultRefineRate,
		PortionSize: domain.DefaultPortionSize,
		Tolerance:   defaultTolerance,
		Timeout:     defaultTimeout,
	}
}

func (o SolverOptions) withDefaults() SolverOptions {
	if o.RefineRate <= 0 {
		o.RefineRate = defaultRefineRate
	}
	if o.PortionSize <= 0 {
		o.PortionSize = domain.DefaultPortionSize
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	return o
}

// EffectiveYield devuelve el yield por unidad de un ore tras aplicar el refine rate.
func EffectiveYield(ore domain.Ore, opts SolverOptions) domain.Minerals {
	opts = opts.withDefaults()
	y := ore.Yield.Scale(opts.RefineRate)
	if opts.FloorYields {
		portion := float64(opts.PortionSize)
		per := y.Scale(portion)
		for i := range per {
			per[i] = math.Floor(per[i] + floorSlack)
		}
		y = per.Scale(1 / portion)
	}
	return y
}

// Problem es el LP ya construido, listo para Solve.
type Problem struct {
	Tiers  []domain.PriceTier
	Yields []domain.Minerals // yield efectivo por unidad, alineado con Tiers
	Target domain.Minerals   // target con negativos a cero
	// active son los minerales con target > 0; solo esos generan restricción.
	active []domain.Mineral
}

// Solution es el resultado del solver.
type Solution struct {
	Status domain.SolveStatus
	// Quantities está alineado con Problem.Tiers.
	Quantities []float64
	Objective  float64
}

// BuildProblem construye el LP a partir de los tiers agregados.
func BuildProblem(tiers []domain.PriceTier, catalog *domain.Catalog, target domain.Minerals, opts SolverOptions) (*Problem, error) {
	p := &Problem{
		Tiers:  tiers,
		Yields: make([]domain.Minerals, len(tiers)),
		Target: target.ClampNegative(),
	}
	for i, t := range tiers {
		ore, ok := catalog.ByID(t.TypeID)
		if !ok {
			return nil, fmt.Errorf("planner.BuildProblem: tier %q: %w: %d", t.Key(), domain.ErrUnknownOre, t.TypeID)
		}
		p.Yields[i] = EffectiveYield(ore, opts)
	}
	for _, m := range domain.AllMinerals {
		if p.Target[m] > 0 {
			p.active = append(p.active, m)
		}
	}
	return p, nil
}

// Supply devuelve lo máximo que se puede refinar comprando todo el stock.
func (p *Problem) Supply() domain.Minerals {
	var total domain.Minerals
	for i, t := range p.Tiers {
		total = total.Add(p.Yields[i].Scale(t.Available))
	}
	return total
}

// Yield devuelve lo que refinan las cantidades dadas (alineadas con Tiers).
func (p *Problem) Yield(qty []float64) domain.Minerals {
	var total domain.Minerals
	for i := range p.Tiers {
		total = total.Add(p.Yields[i].Scale(qty[i]))
	}
	return total
}

// Cost devuelve Σ precio × cantidad.
func (p *Problem) Cost(qty []float64) float64 {
	var total float64
	for i, t := range p.Tiers {
		total += t.Price * qty[i]
	}
	return total
}

// Feasible devuelve true si qty respeta las cotas y cubre el target.
func (p *Problem) Feasible(qty []float64) bool {
	if len(qty) != len(p.Tiers) {
		return false
	}
	for i, t := range p.Tiers {
		if qty[i] < -zeroQty || qty[i] > t.Available*(1+coverEps)+zeroQty {
			return false
		}
	}
	y := p.Yield(qty)
	for _, m := range p.active {
		if y[m] < p.Target[m]-coverEps*math.Max(1, p.Target[m]) {
			return false
		}
	}
	return true
}

// standardForm arma c, A y b para lp.Simplex.
func (p *Problem) standardForm() (c []float64, a *mat.Dense, b []float64) {
	n, k := len(p.Tiers), len(p.active)
	rows, cols := n+k, 2*n+k

	c = make([]float64, cols)
	b = make([]float64, rows)
	a = mat.NewDense(rows, cols, nil)

	for i, t := range p.Tiers {
		c[i] = t.Price
		a.Set(i, i, 1)   // x_b
		a.Set(i, n+i, 1) // u_b
		b[i] = t.Available
	}
	for r, m := range p.active {
		row := n + r
		for i := range p.Tiers {
			if y := p.Yields[i][m]; y != 0 {
				a.Set(row, i, y)
			}
		}
		a.Set(row, 2*n+r, -1) // s_m
		b[row] = p.Target[m]
	}
	return c, a, b
}

// Solve resuelve el LP. Los errores devueltos envuelven domain.ErrInfeasible,
// domain.ErrSolverTimeout o domain.ErrSolverFailed; en todos los casos
// Solution.Status refleja el resultado y no hay cantidades.
//
// Si Simplex falla por motivos numéricos se intenta un plan greedy: si cubre
// el target se devuelve con StatusFeasible (válido pero sin garantía de óptimo).
func Solve(ctx context.Context, p *Problem, opts SolverOptions) (Solution, error) {
	opts = opts.withDefaults()
	n := len(p.Tiers)

	if len(p.active) == 0 {
		return Solution{Status: domain.StatusOptimal, Quantities: make([]float64, n)}, nil
	}

	supply := p.Supply()
	for _, m := range p.active {
		if supply[m] < p.Target[m] {
			return Solution{Status: domain.StatusInfeasible}, fmt.Errorf(
				"planner.Solve: %w: %s needs %.0f, at most %.0f available",
				domain.ErrInfeasible, m, p.Target[m], supply[m])
		}
	}

	c, a, b := p.standardForm()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return Solution{Status: domain.StatusTimeout}, fmt.Errorf("planner.Solve: %w: %v", domain.ErrSolverTimeout, err)
	}

	type result struct {
		opt float64
		x   []float64
		err error
	}
	// El solve de gonum no es cancelable: si vence el timeout la goroutine
	// termina en segundo plano y su resultado se descarta.
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		opt, x, err := lp.Simplex(c, a, b, opts.Tolerance, nil)
		done <- result{opt: opt, x: x, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return Solution{Status: domain.StatusTimeout}, fmt.Errorf("planner.Solve: %w after %s: %v",
			domain.ErrSolverTimeout, time.Since(start).Round(time.Millisecond), ctx.Err())
	case res = <-done:
	}

	slog.Debug("simplex finished",
		"tiers", n,
		"constraints", len(p.active),
		"duration", time.Since(start).Round(time.Millisecond),
		"err", res.err,
	)

	switch {
	case errors.Is(res.err, lp.ErrInfeasible):
		return Solution{Status: domain.StatusInfeasible}, fmt.Errorf("planner.Solve: %w", domain.ErrInfeasible)
	case res.err != nil:
		return p.fallback(fmt.Errorf("simplex: %w", res.err))
	}

	qty := snapQuantities(res.x[:n], p.Tiers)
	if !p.Feasible(qty) {
		return p.fallback(errors.New("simplex solution violates constraints"))
	}
	return Solution{Status: domain.StatusOptimal, Quantities: qty, Objective: p.Cost(qty)}, nil
}

// fallback intenta un plan greedy tras un fallo numérico del simplex.
func (p *Problem) fallback(cause error) (Solution, error) {
	slog.Warn("simplex failed, trying greedy plan", "err", cause)
	qty, ok := greedyCover(p)
	if !ok {
		return Solution{Status: domain.StatusAbnormal}, fmt.Errorf("planner.Solve: %w: %v", domain.ErrSolverFailed, cause)
	}
	return Solution{Status: domain.StatusFeasible, Quantities: qty, Objective: p.Cost(qty)}, nil
}

// snapQuantities pone a 0 el ruido numérico y recorta a [0, available].
func snapQuantities(x []float64, tiers []domain.PriceTier) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < zeroQty:
			out[i] = 0
		case v > tiers[i].Available:
			out[i] = tiers[i].Available
		default:
			out[i] = v
		}
	}
	return out
}
