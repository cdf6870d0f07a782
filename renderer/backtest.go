package renderer

import (
	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
)

// BacktestMarkdown renders the backtest summary, the trade log and the
// equity curve.
func BacktestMarkdown(bt rotation.Backtest, window date.Range) string {
	r := newReport()
	r.Printf("## Backtest %s → %s\n\n", window.From, window.To)

	r.Printf("| | |\n")
	r.Printf("|:---|--:|\n")
	r.Printf("| Initial cash | %s |\n", bt.InitialCash)
	r.Printf("| Final equity | %s |\n", bt.FinalEquity)
	r.Printf("| Trades | %d |\n", len(bt.Trades))
	r.Printf("| Win rate | %s |\n", bt.WinRate)
	r.Printf("| Cumulative return | %s |\n\n", bt.CumReturn.SignedString())

	r.Printf("### Trades\n\n")
	if len(bt.Trades) == 0 {
		r.Printf("No trade was executed in the window.\n")
		return r.String()
	}
	r.Printf("| Ticker | Ex-Date | Buy | Buy Px | Sell | Sell Px | Shares | Dividend | P&L |\n")
	r.Printf("|:---|:---|:---|--:|:---|--:|--:|--:|--:|\n")
	for _, t := range bt.Trades {
		r.Printf("| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			t.Symbol, t.ExDate, t.BuyDate, t.BuyPrice.StringFixed(2),
			t.SellDate, t.SellPrice.StringFixed(2), t.Shares,
			t.DividendCash, t.PnL)
	}

	r.Printf("\n### Equity Curve\n\n")
	r.Printf("| Date | Equity | Return | Cumulative |\n")
	r.Printf("|:---|--:|--:|--:|\n")
	for _, p := range bt.Curve {
		r.Printf("| %s | %s | %s | %s |\n", p.Date, p.Equity, p.Return.SignedString(), p.Cumulative.SignedString())
	}
	return r.String()
}
