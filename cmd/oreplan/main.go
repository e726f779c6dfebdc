package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/oreplan/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "oreplan",
		Usage: "Cheapest ore purchase plan that refines into a mineral target",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/config.yaml",
				Usage:   "path to config file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "set log level to debug",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "log format: text|json (overrides config)",
			},
		},
		Commands: []*cli.Command{
			planCmd,
			importCmd,
			cacheCmd,
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("oreplan failed", "err", err)
		cancel()
		os.Exit(1)
	}
}

// loadConfig carga la config y aplica los flags globales de logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	if f := c.String("format"); f != "" {
		cfg.Log.Format = f
	}
	setupLogger(cfg.Log)
	slog.Debug("config loaded", "path", path)
	return cfg, nil
}

// setupLogger configura slog. Los logs van a stderr: stdout es para el
// reporte y el catálogo generado.
func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
