package renderer

import (
	"strconv"

	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
)

// CandidatesMarkdown renders the ranked candidate table.
func CandidatesMarkdown(candidates []rotation.ScoredCandidate, today date.Date) string {
	r := newReport()
	r.Printf("## Top Candidates\n\n")
	if len(candidates) == 0 {
		r.Printf("No candidate survived screening.\n")
		return r.String()
	}
	r.Printf("| # | Ticker | Name | Yield | Avg Volume | Next Ex-Date | Days | Amount | Score |\n")
	r.Printf("|--:|:---|:---|--:|--:|:---|--:|--:|--:|\n")
	for i, c := range candidates {
		days := "-"
		amount := "-"
		if c.HasUpcomingDividend() {
			days = strconv.Itoa(today.DaysUntil(c.NextExDate))
			amount = c.NextAmount.StringFixed(4)
		}
		r.Printf("| %d | %s | %s | %s | %.0f | %s | %s | %s | %.4f |\n",
			i+1, c.Symbol, c.Name, rotation.Percent(c.Yield*100), c.AvgVolume,
			cell(c.NextExDate), days, amount, c.Composite)
	}
	return r.String()
}
