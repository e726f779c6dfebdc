package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultFetchWorkers = 8

// Config contiene la configuración del planner.
type Config struct {
	Target       domain.Minerals
	Solver       SolverOptions
	Consolidate  ConsolidateOptions
	FetchWorkers int
}

// DefaultConfig devuelve una configuración sensata (target vacío).
func DefaultConfig() Config {
	return Config{
		Solver:       DefaultSolverOptions(),
		Consolidate:  DefaultConsolidateOptions(),
		FetchWorkers: defaultFetchWorkers,
	}
}

// Planner orquesta fetch → agregación → LP → consolidación → reporte.
type Planner struct {
	cfg      Config
	catalog  *domain.Catalog
	market   ports.MarketProvider
	reporter ports.Reporter
}

// New crea un Planner con todas las dependencias inyectadas. reporter puede ser nil.
func New(cfg Config, catalog *domain.Catalog, market ports.MarketProvider, reporter ports.Reporter) *Planner {
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}
	return &Planner{cfg: cfg, catalog: catalog, market: market, reporter: reporter}
}

// Run ejecuta una planificación completa. El plan se reporta siempre (también
// cuando es INFEASIBLE, solo con el status) y el error se devuelve al caller.
func (p *Planner) Run(ctx context.Context) (domain.Plan, error) {
	start := time.Now()

	orders, err := p.FetchOrders(ctx)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, planErr := Optimize(ctx, p.catalog, orders, p.cfg)

	if p.reporter != nil {
		if err := p.reporter.Report(ctx, plan); err != nil {
			slog.Warn("reporter error", "err", err)
		}
	}

	slog.Info("planning complete",
		"run_id", plan.RunID,
		"status", plan.Status,
		"orders", len(orders),
		"purchases", len(plan.Purchases),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return plan, planErr
}

// FetchOrders obtiene las órdenes de todos los ores del catálogo.
// Lanza FetchWorkers goroutines; el rate limiter del provider marca el ritmo.
func (p *Planner) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	ids := p.catalog.TypeIDs()

	type fetchResult struct {
		idx    int
		orders []domain.Order
		err    error
	}

	workCh := make(chan int, len(ids))
	resultCh := make(chan fetchResult, len(ids))
	for i := range ids {
		workCh <- i
	}
	close(workCh)

	var wg sync.WaitGroup
	for w := 0; w < min(p.cfg.FetchWorkers, len(ids)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				orders, err := p.market.FetchOrders(ctx, ids[i])
				resultCh <- fetchResult{idx: i, orders: orders, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byIdx := make([][]domain.Order, len(ids))
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("planner.FetchOrders: type %d: %w", ids[r.idx], r.err)
			}
			continue
		}
		byIdx[r.idx] = r.orders
	}
	if firstErr != nil {
		return nil, firstErr
	}

	// Orden estable por catálogo para que la agregación sea determinista.
	var all []domain.Order
	for _, orders := range byIdx {
		all = append(all, orders...)
	}
	slog.Debug("orders fetched", "types", len(ids), "orders", len(all))
	return all, nil
}

// Optimize es el núcleo sin I/O: agrega las órdenes, resuelve el LP y consolida
// la solución en lotes. Si el status no es utilizable devuelve un plan solo con
// el status y el error correspondiente.
func Optimize(ctx context.Context, catalog *domain.Catalog, orders []domain.Order, cfg Config) (domain.Plan, error) {
	plan := domain.Plan{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		RefineRate:  cfg.Solver.withDefaults().RefineRate,
		Target:      cfg.Target,
	}

	tiers, err := Aggregate(orders, catalog)
	if err != nil {
		plan.Status = domain.StatusAbnormal
		return plan, err
	}

	problem, err := BuildProblem(tiers, catalog, cfg.Target, cfg.Solver)
	if err != nil {
		plan.Status = domain.StatusAbnormal
		return plan, err
	}

	sol, err := Solve(ctx, problem, cfg.Solver)
	plan.Status = sol.Status
	if err != nil {
		return plan, err
	}
	if !sol.Status.Usable() {
		return plan, fmt.Errorf("planner.Optimize: %w: status %s", domain.ErrSolverFailed, sol.Status)
	}

	assemble(&plan, catalog, problem, sol, cfg)
	return plan, nil
}

// assemble rellena compras, totales, yields y lotes a partir de la solución.
func assemble(plan *domain.Plan, catalog *domain.Catalog, problem *Problem, sol Solution, cfg Config) {
	total := decimal.Zero
	perOre := make(map[string]float64)

	for i, tier := range problem.Tiers {
		q := sol.Quantities[i]
		if q == 0 {
			continue
		}
		plan.Purchases = append(plan.Purchases, domain.TierPurchase{Tier: tier, Quantity: q})
		total = total.Add(decimal.NewFromFloat(tier.Price).Mul(decimal.NewFromFloat(q)))
		perOre[tier.Ore] += q
	}
	plan.TotalPrice = total.InexactFloat64()

	plan.Units = make(map[string]int64, len(perOre))
	names := make([]string, 0, len(perOre))
	for name := range perOre {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ore, _ := catalog.ByName(name)
		units := CeilUnits(perOre[name])
		plan.Units[name] = units
		plan.TotalVolume += ore.Volume * perOre[name]
		plan.Yield = plan.Yield.Add(EffectiveYield(ore, cfg.Solver).Scale(float64(units)))
	}
	plan.Excess = plan.Yield.Sub(plan.Target)

	plan.Lots = Consolidate(plan.Purchases, cfg.Consolidate)
	plan.Rounds = domain.AlignRounds(plan.Lots)
	lotTotal := decimal.Zero
	for _, lots := range plan.Lots {
		for _, l := range lots {
			lotTotal = lotTotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(l.Quantity)))
		}
	}
	plan.LotPrice = lotTotal.InexactFloat64()
}
