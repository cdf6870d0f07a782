package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
	"github.com/etnz/rotation/renderer"
	"github.com/google/subcommands"
)

type planCmd struct {
	screenFlags
	holdPre  int
	holdPost int
	output   string
	csv      bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "build the forward buy/sell schedule around upcoming ex-dates" }
func (*planCmd) Usage() string {
	return `rot plan [score flags] [-hold-pre <sessions>] [-hold-post <sessions>] [-csv] [-o <prefix>]

  Ranks the candidates, fetches their scheduled ex-dividend dates inside the
  lookahead window, and schedules a buy hold-pre trading days before each
  ex-date and a sell hold-post trading days after, on the exchange calendar.

Usage Examples:
# Print the plan for the top 10 US candidates.
$ rot plan

# Also export it for the order management spreadsheet.
$ rot plan -csv -o rotation
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	c.screenFlags.setFlags(f)
	f.IntVar(&c.holdPre, "hold-pre", 2, "Trading days before the ex-date to buy")
	f.IntVar(&c.holdPost, "hold-post", 1, "Trading days after the ex-date to sell")
	f.StringVar(&c.output, "o", "rotation", "Output filename prefix for -csv")
	f.BoolVar(&c.csv, "csv", false, "Also write the plan to <prefix>_plan.csv")
}

func (c *planCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	gw, err := c.gateway()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	today := date.Today()
	ranked, err := c.rank(gw, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	symbols := make([]string, 0, len(ranked))
	for _, r := range ranked {
		symbols = append(symbols, r.Symbol)
	}
	horizon := today.Add(c.lookahead)
	events, err := gw.UpcomingDividends(symbols, today, horizon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// The calendar extends a little past the window on both sides so that
	// shifts near its edges still resolve.
	holidays, err := gw.ExchangeHolidays(c.exchange, today.Add(-30), horizon.Add(10))
	if err != nil {
		log.Printf("warning: no holiday calendar for %s, using plain business days: %v", c.exchange, err)
		holidays = nil
	}
	cal := rotation.BuildCalendar(today.Add(-30), horizon.Add(10), holidays)

	plan := rotation.BuildPlan(ranked, events, c.holdPre, c.holdPost, cal)
	printMarkdown(renderer.PlanMarkdown(plan))

	if c.csv {
		path := c.output + "_plan.csv"
		if err := writeFile(path, func(w io.Writer) error { return renderer.WritePlanCSV(w, plan) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return subcommands.ExitSuccess
}
