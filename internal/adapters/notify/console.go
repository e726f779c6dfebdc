package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Console implementa ports.Reporter escribiendo el plan en texto.
type Console struct {
	out   io.Writer
	p     *message.Printer
	table bool
}

var _ ports.Reporter = (*Console)(nil)

// NewConsole crea un reporter que escribe a stdout. Con table=false se omiten
// las tablas de detalle y solo salen yields, rondas y totales.
func NewConsole(table bool) *Console {
	return NewConsoleWriter(os.Stdout, table)
}

// NewConsoleWriter crea un reporter sobre cualquier writer (tests).
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, p: message.NewPrinter(language.English), table: table}
}

// Report imprime el plan. Si el status no es utilizable solo imprime el status.
func (c *Console) Report(_ context.Context, plan domain.Plan) error {
	c.p.Fprintf(c.out, "\n[%s] plan %s: %s (refine rate %.4f)\n",
		plan.GeneratedAt.Local().Format("15:04:05"), shortID(plan.RunID), plan.Status, plan.RefineRate)

	if !plan.Status.Usable() {
		fmt.Fprintf(c.out, "no purchase plan: solver finished %s\n", plan.Status)
		return nil
	}
	if plan.Status == domain.StatusFeasible {
		fmt.Fprintln(c.out, "!! SUB-OPTIMAL BUT FEASIBLE: the plan meets the target, cost is not proven minimal")
	}

	if c.table {
		c.printPurchases(plan)
	}
	c.printYield(plan)
	c.printMultibuy(plan)
	if c.table {
		c.printLots(plan)
	}
	c.printRounds(plan)
	c.printTotals(plan)
	return nil
}

// printPurchases imprime la compra fraccional por tier.
func (c *Console) printPurchases(plan domain.Plan) {
	fmt.Fprintln(c.out, "\nPurchases by price tier:")
	table := tablewriter.NewWriter(c.out)
	table.Header("Tier", "Quantity", "Available", "Cost")
	for _, pu := range plan.Purchases {
		table.Append(
			pu.Tier.Key(),
			c.p.Sprintf("%.2f", pu.Quantity),
			c.p.Sprintf("%.0f", pu.Tier.Available),
			c.p.Sprintf("%.0f", pu.Cost()),
		)
	}
	table.Render()
}

// printYield imprime lo que refinan las unidades compradas frente al target.
func (c *Console) printYield(plan domain.Plan) {
	fmt.Fprintln(c.out, "\nYielding:")
	for _, m := range domain.AllMinerals {
		if plan.Yield[m] == 0 && plan.Target[m] == 0 {
			continue
		}
		c.p.Fprintf(c.out, "%.0fx %s (excess of %.0f)\n", plan.Yield[m], m, plan.Excess[m])
	}
}

// printMultibuy imprime las unidades totales por ore.
func (c *Console) printMultibuy(plan domain.Plan) {
	fmt.Fprintln(c.out, "\nINPUT TO MULTIBUY:")
	for _, name := range plan.OreNames() {
		c.p.Fprintf(c.out, "%dx %s\n", plan.Units[name], name)
	}
}

// printLots imprime los lotes consolidados de cada ore.
func (c *Console) printLots(plan domain.Plan) {
	fmt.Fprintln(c.out, "\nConsolidated lots:")
	table := tablewriter.NewWriter(c.out)
	table.Header("Ore", "Lot", "Clearing price", "Quantity", "Cost")
	for _, name := range plan.OreNames() {
		for i, l := range plan.Lots[name] {
			table.Append(
				name,
				fmt.Sprintf("%d/%d", i+1, len(plan.Lots[name])),
				c.p.Sprintf("%.0f", l.Price),
				c.p.Sprintf("%d", l.Quantity),
				c.p.Sprintf("%.0f", l.Cost()),
			)
		}
	}
	table.Render()
}

// printRounds imprime un bloque de multi-buy por ronda.
func (c *Console) printRounds(plan domain.Plan) {
	for i, round := range plan.Rounds {
		fmt.Fprintf(c.out, "\nINPUT TO MULTIBUY (round %d of %d):\n", i+1, len(plan.Rounds))
		var cost float64
		for _, l := range round {
			c.p.Fprintf(c.out, "%dx %s\n", l.Quantity, l.Ore)
			cost += l.Cost()
		}
		c.p.Fprintf(c.out, "round cost: %.0f\n", math.Ceil(cost))
	}
}

func (c *Console) printTotals(plan domain.Plan) {
	fmt.Fprintln(c.out)
	c.p.Fprintf(c.out, "Total price: %d\n", int64(math.Ceil(plan.TotalPrice)))
	c.p.Fprintf(c.out, "Lot price: %d\n", int64(math.Ceil(plan.LotPrice)))
	c.p.Fprintf(c.out, "Total volume: %.2f m3\n", plan.TotalVolume)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
