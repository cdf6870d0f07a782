package renderer

import "github.com/etnz/rotation"

// PlanMarkdown renders the forward buy/sell schedule.
func PlanMarkdown(plan []rotation.PlannedTrade) string {
	r := newReport()
	r.Printf("## Forward Plan\n\n")
	if len(plan) == 0 {
		r.Printf("No ex-dividend event found in the lookahead window.\n")
		return r.String()
	}
	r.Printf("| Ticker | Name | Ex-Date | Amount | Currency | Buy | Sell | Est. Gain | Note |\n")
	r.Printf("|:---|:---|:---|--:|:---|:---|:---|--:|:---|\n")
	for _, p := range plan {
		r.Printf("| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Symbol, p.Name, p.ExDate, p.Amount.StringFixed(4), p.Currency,
			cell(p.BuyDate), cell(p.SellDate), p.EstimatedGain, p.Note)
	}
	return r.String()
}
