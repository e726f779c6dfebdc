package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alejandrodnm/oreplan/internal/adapters/catalog"
	"github.com/urfave/cli/v2"
)

var importCmd = &cli.Command{
	Name:  "import",
	Usage: "Build a compressed-ore catalog from an ore reference dump",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "dump",
			Required: true,
			Usage:    "ore reference dump (JSON with names, types_compressed, minerals, volume_compressed)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output catalog JSON (default stdout)",
		},
		&cli.Float64Flag{
			Name:  "refine-rate",
			Value: 1.0,
			Usage: fmt.Sprintf("yield multiplier baked into the catalog (%.4f = 5/5/5, T1 rig Tatara, RX-804)", catalog.BaselineRefineRate),
		},
		&cli.IntFlag{
			Name:  "portion",
			Value: 100,
			Usage: "units per refining portion",
		},
	},
	Action: func(c *cli.Context) error {
		var (
			dump    = c.String("dump")
			out     = c.String("out")
			rate    = c.Float64("refine-rate")
			portion = c.Int("portion")
		)
		if !(rate > 0 && rate <= 1) {
			return fmt.Errorf("invalid refine rate %g", rate)
		}
		if portion <= 0 {
			return fmt.Errorf("invalid portion size %d", portion)
		}
		setupLogger(logConfigFromFlags(c))
		return doImport(c.Context, dump, out, rate, portion)
	},
}

func doImport(_ context.Context, dumpPath, outPath string, rate float64, portion int) error {
	f, err := os.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	ores, err := catalog.Import(f, catalog.ImportOptions{RefineRate: rate, PortionSize: portion})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %q: %w", outPath, err)
		}
		defer out.Close()
		w = out
	}
	if err := catalog.WriteJSON(w, ores, portion); err != nil {
		return err
	}
	slog.Info("catalog written", "ores", len(ores), "refine_rate", rate, "out", outPath)
	return nil
}
