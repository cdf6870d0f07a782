package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rotation/date"
	"github.com/etnz/rotation/renderer"
	"github.com/google/subcommands"
)

type scoreCmd struct {
	screenFlags
}

func (*scoreCmd) Name() string     { return "score" }
func (*scoreCmd) Synopsis() string { return "screen an exchange and rank dividend ETF candidates" }
func (*scoreCmd) Usage() string {
	return `rot score [-exchange <code>] [-min-yield <frac>] [-min-vol <shares>] [-topk n] [-lookahead <days>] [-wy <w>] [-wl <w>] [-wp <w>]

  Screens the exchange for dividend-paying ETFs and ranks them by a weighted
  blend of yield, liquidity and ex-dividend proximity.

Usage Examples:
# Rank the top 10 US dividend ETF candidates.
$ rot score

# Favour imminent ex-dates on a smaller universe.
$ rot score -topk 5 -wp 0.6 -wy 0.3 -wl 0.1
`
}

func (c *scoreCmd) SetFlags(f *flag.FlagSet) {
	c.screenFlags.setFlags(f)
}

func (c *scoreCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.CandidatesMarkdown(ranked, today))
	return subcommands.ExitSuccess
}
