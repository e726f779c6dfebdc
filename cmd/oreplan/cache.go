package main

import (
	"log/slog"

	"github.com/alejandrodnm/oreplan/config"
	"github.com/alejandrodnm/oreplan/internal/adapters/storage"
	"github.com/urfave/cli/v2"
)

var cacheCmd = &cli.Command{
	Name:  "cache",
	Usage: "Manage the order cache",
	Subcommands: []*cli.Command{
		{
			Name:  "prune",
			Usage: "Delete expired entries from the sqlite order cache",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				if cfg.Cache.Backend != "sqlite" {
					slog.Info("nothing to prune, entries expire on their own", "backend", cfg.Cache.Backend)
					return nil
				}
				cache, err := storage.NewSQLiteCache(cfg.Cache.DSN, cfg.CacheTTL())
				if err != nil {
					return err
				}
				defer cache.Close()

				n, err := cache.Prune(c.Context)
				if err != nil {
					return err
				}
				slog.Info("cache pruned", "dsn", cfg.Cache.DSN, "removed", n)
				return nil
			},
		},
	},
}

// logConfigFromFlags construye la config de logging solo con los flags
// globales, para comandos que no necesitan el fichero de config.
func logConfigFromFlags(c *cli.Context) config.LogConfig {
	lc := config.LogConfig{Level: "info", Format: "text"}
	if c.Bool("verbose") {
		lc.Level = "debug"
	}
	if f := c.String("format"); f != "" {
		lc.Format = f
	}
	return lc
}
