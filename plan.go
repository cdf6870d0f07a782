package rotation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// noteUnresolved flags plan rows whose buy or sell date fell off the edge of
// the calendar. The row is still emitted, so exports keep one row per event.
const noteUnresolved = "buy/sell date outside calendar coverage"

var hundred = decimal.NewFromInt(100)

// BuildPlan turns the upcoming dividend events of ranked candidates into a
// buy/sell schedule: buy holdPre sessions before each ex-date, sell holdPost
// sessions after, both resolved against cal.
//
// Events whose symbol is not among the candidates are ignored. Rows are
// ordered by ex-date then symbol so consecutive runs diff cleanly.
func BuildPlan(candidates []ScoredCandidate, events []DividendEvent, holdPre, holdPost int, cal Calendar) []PlannedTrade {
	byName := make(map[string]ScoredCandidate, len(candidates))
	for _, c := range candidates {
		byName[c.Symbol] = c
	}

	plan := make([]PlannedTrade, 0, len(events))
	for _, e := range events {
		c, ok := byName[e.Symbol]
		if !ok {
			continue
		}
		row := PlannedTrade{
			Symbol:   e.Symbol,
			Name:     c.Name,
			ExDate:   e.ExDate,
			Amount:   e.Amount,
			Currency: e.Currency,
		}
		buy, buyOK := cal.Shift(e.ExDate, -holdPre)
		sell, sellOK := cal.Shift(e.ExDate, +holdPost)
		if buyOK && sellOK {
			row.BuyDate, row.SellDate = buy, sell
		} else {
			row.Note = noteUnresolved
		}
		row.EstimatedGain = estimatedGain(e.Amount, c.LastClose)
		plan = append(plan, row)
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].ExDate != plan[j].ExDate {
			return plan[i].ExDate.Before(plan[j].ExDate)
		}
		return plan[i].Symbol < plan[j].Symbol
	})
	return plan
}

// estimatedGain is the dividend as a percentage of the reference price, or
// zero when no usable price is known.
func estimatedGain(amount, price decimal.Decimal) Percent {
	if !price.IsPositive() {
		return 0
	}
	return Percent(amount.Div(price).Mul(hundred).InexactFloat64())
}
