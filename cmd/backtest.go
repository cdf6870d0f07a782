package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
	"github.com/etnz/rotation/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type backtestCmd struct {
	screenFlags
	holdPre     int
	holdPost    int
	start       string
	end         string
	initialCash float64
	alloc       float64
	output      string
	csv         bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "replay the rotation over a historical window" }
func (*backtestCmd) Usage() string {
	return `rot backtest [score flags] [-start <date>] [-end <date>] [-initial-cash <usd>] [-alloc <frac>] [-hold-pre n] [-hold-post n] [-csv] [-o <prefix>]

  Ranks today's candidates, then replays every dividend they paid inside the
  window: buy hold-pre sessions before each ex-date, collect the dividend,
  sell hold-post sessions after, compounding one shared cash pool.

Usage Examples:
# One year ending yesterday, with the defaults.
$ rot backtest

# A specific window with exports.
$ rot backtest -start 2024-01-02 -end 2024-12-31 -csv -o rotation
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	c.screenFlags.setFlags(f)
	f.IntVar(&c.holdPre, "hold-pre", 2, "Trading days before the ex-date to buy")
	f.IntVar(&c.holdPost, "hold-post", 1, "Trading days after the ex-date to sell")
	f.StringVar(&c.start, "start", "", "Window start date, YYYY-MM-DD (default one year before the end)")
	f.StringVar(&c.end, "end", "", "Window end date, YYYY-MM-DD (default yesterday)")
	f.Float64Var(&c.initialCash, "initial-cash", 100000, "Initial capital, in USD")
	f.Float64Var(&c.alloc, "alloc", 0.33, "Fraction of current cash allocatable per event, before division by -topk")
	f.StringVar(&c.output, "o", "rotation", "Output filename prefix for -csv")
	f.BoolVar(&c.csv, "csv", false, "Also write <prefix>_trades.csv and <prefix>_equity.csv")
}

// window resolves the -start and -end flags into the simulation range.
func (c *backtestCmd) window(today date.Date) (date.Range, error) {
	end := today.Add(-1)
	if c.end != "" {
		var err error
		end, err = date.Parse(c.end)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -end: %w", err)
		}
	}
	start := end.Add(-365)
	if c.start != "" {
		var err error
		start, err = date.Parse(c.start)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -start: %w", err)
		}
	}
	if end.Before(start) {
		return date.Range{}, fmt.Errorf("window end %s is before start %s", end, start)
	}
	return date.Range{From: start, To: end}, nil
}

func (c *backtestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	gw, err := c.gateway()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	today := date.Today()
	window, err := c.window(today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ranked, err := c.rank(gw, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	bt, err := rotation.Simulate(gw, ranked, rotation.Simulation{
		Range:         window,
		InitialCash:   decimal.NewFromFloat(c.initialCash),
		Currency:      "USD",
		HoldPre:       c.holdPre,
		HoldPost:      c.holdPost,
		AllocFraction: c.alloc,
		TopK:          c.topk,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.BacktestMarkdown(bt, window))

	if c.csv {
		trades := c.output + "_trades.csv"
		if err := writeFile(trades, func(w io.Writer) error { return renderer.WriteTradesCSV(w, bt.Trades) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", trades, err)
			return subcommands.ExitFailure
		}
		equity := c.output + "_equity.csv"
		if err := writeFile(equity, func(w io.Writer) error { return renderer.WriteEquityCSV(w, bt.Curve) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", equity, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", trades, equity)
	}
	return subcommands.ExitSuccess
}
