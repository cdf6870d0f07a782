// Package cmd implements the rot CLI on top of the rotation engine.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
	"github.com/etnz/rotation/eodhd"
	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&scoreCmd{},
	&planCmd{},
	&backtestCmd{},
	&topicCmd{},
}

const eodhdKeyEnv = "EODHD_API_KEY"

// apiKeyFlag resolves the EODHD API key, flag taking precedence over
// the environment variable.
type apiKeyFlag struct {
	key string
}

func (a *apiKeyFlag) setFlags(f *flag.FlagSet) {
	f.StringVar(&a.key, "eodhd-api-key", "", "EODHD API key. Takes precedence over the "+eodhdKeyEnv+" environment variable. You can get one at https://eodhd.com/")
}

func (a *apiKeyFlag) apiKey() string {
	if a.key == "" {
		a.key = os.Getenv(eodhdKeyEnv)
	}
	return a.key
}

// gateway builds the EODHD market data gateway from the resolved key.
func (a *apiKeyFlag) gateway() (rotation.Gateway, error) {
	key := a.apiKey()
	if key == "" {
		return nil, fmt.Errorf("EODHD API key is not set: use the -eodhd-api-key flag or the %s environment variable", eodhdKeyEnv)
	}
	return eodhd.New(eodhd.Config{APIKey: key})
}

// screenFlags are shared by every command that ranks a candidate universe.
type screenFlags struct {
	apiKeyFlag

	exchange   string
	minYield   float64
	minVol     float64
	topk       int
	lookahead  int
	wy, wl, wp float64
}

func (s *screenFlags) setFlags(f *flag.FlagSet) {
	s.apiKeyFlag.setFlags(f)
	f.StringVar(&s.exchange, "exchange", "US", "Exchange code to screen")
	f.Float64Var(&s.minYield, "min-yield", 0.009, "Minimum dividend yield, as a fraction (0.009 = 0.9%)")
	f.Float64Var(&s.minVol, "min-vol", 200000, "Minimum average daily volume, in shares")
	f.IntVar(&s.topk, "topk", 10, "Number of top candidates to keep")
	f.IntVar(&s.lookahead, "lookahead", 90, "Ex-dividend lookahead window, in days")
	w := rotation.DefaultWeights()
	f.Float64Var(&s.wy, "wy", w.Yield, "Dividend yield weight")
	f.Float64Var(&s.wl, "wl", w.Liquidity, "Liquidity weight")
	f.Float64Var(&s.wp, "wp", w.Proximity, "Ex-date proximity weight")
}

func (s *screenFlags) weights() rotation.Weights {
	return rotation.Weights{Yield: s.wy, Liquidity: s.wl, Proximity: s.wp}
}

func (s *screenFlags) query() rotation.ScreenQuery {
	return rotation.ScreenQuery{Exchange: s.exchange, MinYield: s.minYield, MinAvgVolume: s.minVol}
}

// rank screens the exchange and returns the top candidates by composite score.
func (s *screenFlags) rank(gw rotation.Gateway, today date.Date) ([]rotation.ScoredCandidate, error) {
	universe, err := rotation.FetchUniverse(gw, s.query(), s.lookahead, today)
	if err != nil {
		return nil, err
	}
	scored, err := rotation.Score(universe, s.weights(), s.lookahead, today)
	if err != nil {
		return nil, err
	}
	return rotation.TopK(scored, s.topk), nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// writeFile creates path and streams write into it.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
