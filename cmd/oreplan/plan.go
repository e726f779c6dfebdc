package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/oreplan/config"
	"github.com/alejandrodnm/oreplan/internal/adapters/catalog"
	"github.com/alejandrodnm/oreplan/internal/adapters/esi"
	"github.com/alejandrodnm/oreplan/internal/adapters/notify"
	"github.com/alejandrodnm/oreplan/internal/adapters/storage"
	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/market"
	"github.com/alejandrodnm/oreplan/internal/planner"
	"github.com/alejandrodnm/oreplan/internal/ports"
	"github.com/urfave/cli/v2"
)

var planCmd = &cli.Command{
	Name:    "plan",
	Usage:   "Fetch sell orders and print the cheapest purchase plan",
	Aliases: []string{"p"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "ore catalog (.json or .csv), overrides config",
		},
		&cli.StringFlag{
			Name:  "orders",
			Usage: "read orders from a JSON file instead of ESI",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "always download orders",
		},
		&cli.Float64Flag{
			Name:  "refine-rate",
			Usage: "yield multiplier, overrides config (0.8254 for theoretical yields)",
		},
		&cli.BoolFlag{
			Name:  "table",
			Usage: "print per-tier purchases and lots tables",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if v := c.String("catalog"); v != "" {
			cfg.Catalog.Path = v
		}
		if c.IsSet("refine-rate") {
			if r := c.Float64("refine-rate"); r > 0 {
				cfg.Planner.RefineRate = r
			} else {
				return fmt.Errorf("invalid refine rate %g", r)
			}
		}
		return doPlan(c.Context, cfg, c.String("orders"), c.Bool("no-cache"), c.Bool("table"))
	},
}

func doPlan(ctx context.Context, cfg *config.Config, ordersPath string, noCache, table bool) error {
	cat, err := catalog.FileLoader{Path: cfg.Catalog.Path}.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	target, err := cfg.BuildTarget()
	if err != nil {
		return err
	}

	provider, closeFn, err := newProvider(ctx, cfg, ordersPath, noCache)
	if err != nil {
		return err
	}
	defer closeFn()

	pcfg := planner.Config{
		Target: target,
		Solver: planner.SolverOptions{
			RefineRate:  cfg.Planner.RefineRate,
			FloorYields: cfg.Planner.FloorYields,
			PortionSize: cfg.Planner.PortionSize,
			Timeout:     cfg.SolverTimeout(),
		},
		Consolidate: planner.ConsolidateOptions{
			MaxRounds:       cfg.Planner.MaxRounds,
			ExhaustiveLimit: cfg.Planner.ExhaustiveLimit,
		},
		FetchWorkers: cfg.Planner.FetchWorkers,
	}

	slog.Info("oreplan starting",
		"catalog", cfg.Catalog.Path,
		"ores", cat.Len(),
		"target", target.ClampNegative().String(),
		"refine_rate", cfg.Planner.RefineRate,
		"cache", cfg.Cache.Backend,
	)

	plan, err := planner.New(pcfg, cat, provider, notify.NewConsole(table)).Run(ctx)
	if err != nil {
		return err
	}
	if plan.Status == domain.StatusFeasible {
		slog.Warn("plan is feasible but not proven optimal", "run_id", plan.RunID)
	}
	return nil
}

// newProvider arma la cadena de providers: fichero local, o ESI detrás de
// la caché configurada.
func newProvider(ctx context.Context, cfg *config.Config, ordersPath string, noCache bool) (ports.MarketProvider, func(), error) {
	nop := func() {}
	if ordersPath != "" {
		p, err := market.LoadFileProvider(ordersPath)
		return p, nop, err
	}

	client := esi.NewClient(esi.Config{
		BaseURL:    cfg.ESI.BaseURL,
		RegionID:   cfg.ESI.RegionID,
		LocationID: cfg.ESI.LocationID,
		RatePerSec: cfg.ESI.RatePerSec,
		Timeout:    cfg.ESITimeout(),
		UserAgent:  cfg.ESI.UserAgent,
	})
	if noCache || cfg.Cache.Backend == "none" {
		return client, nop, nil
	}

	cache, err := openCache(ctx, cfg)
	if err != nil {
		return nil, nop, err
	}
	return market.NewCachedProvider(client, cache), func() { cache.Close() }, nil
}

func openCache(ctx context.Context, cfg *config.Config) (ports.OrderCache, error) {
	switch cfg.Cache.Backend {
	case "sqlite":
		return storage.NewSQLiteCache(cfg.Cache.DSN, cfg.CacheTTL())
	case "memory":
		return storage.NewMemoryCache(cfg.CacheTTL()), nil
	case "redis":
		return storage.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.CacheTTL())
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
