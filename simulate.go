package rotation

import (
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/etnz/rotation/date"
)

// Simulation configures one historical rotation replay.
type Simulation struct {
	Range       date.Range
	InitialCash decimal.Decimal
	Currency    string

	HoldPre  int // sessions to buy before each ex-date
	HoldPost int // sessions to sell after each ex-date

	AllocFraction float64 // fraction of current cash allocatable per event
	TopK          int     // the allocation is further divided by TopK

	// MinObservations is the minimum price-history length for an
	// instrument to be simulated at all; shorter series are skipped.
	// Zero means the default of 10.
	MinObservations int
}

// cashGuard skips purchases that would consume more than this share of the
// current cash, leaving slack for rounding and fees.
var cashGuard = decimal.NewFromFloat(0.98)

// Simulate replays every realized dividend event of the candidates inside the
// simulation window: buy HoldPre sessions before the ex-date, sell HoldPost
// sessions after, against one shared cash pool.
//
// Buy and sell dates are resolved against each instrument's own price-history
// calendar, so gaps in the data never produce trade dates with no price.
// Events that cannot be funded or dated are skipped, never partially traded.
// An instrument whose market data cannot be fetched is skipped with a warning
// rather than failing the whole backtest.
func Simulate(gw Gateway, candidates []ScoredCandidate, cfg Simulation) (Backtest, error) {
	minObs := cfg.MinObservations
	if minObs == 0 {
		minObs = 10
	}
	topK := cfg.TopK
	if topK < 1 {
		topK = 1
	}
	alloc := decimal.NewFromFloat(cfg.AllocFraction).Div(decimal.NewFromInt(int64(topK)))

	cash := cfg.InitialCash
	var trades []SimulatedTrade
	var curve []rawEquityPoint

	for _, c := range candidates {
		events, err := gw.DividendHistory(c.Symbol, cfg.Range.From, cfg.Range.To)
		if err != nil {
			log.Printf("warning: skipping %s: %v", c.Symbol, err)
			continue
		}
		candles, err := gw.EndOfDayPrices(c.Symbol, cfg.Range.From, cfg.Range.To)
		if err != nil {
			log.Printf("warning: skipping %s: %v", c.Symbol, err)
			continue
		}
		if len(candles) < minObs {
			log.Printf("warning: skipping %s: only %d price observations", c.Symbol, len(candles))
			continue
		}

		days := make([]date.Date, len(candles))
		price := make(map[date.Date]decimal.Decimal, len(candles))
		for i, k := range candles {
			days[i] = k.Date
			price[k.Date] = k.AdjustedClose
		}
		cal := CalendarFromDates(days)

		sort.SliceStable(events, func(i, j int) bool { return events[i].ExDate.Before(events[j].ExDate) })

		for _, e := range events {
			if !cfg.Range.Contains(e.ExDate) {
				continue
			}
			buyDate, buyOK := cal.Shift(e.ExDate, -cfg.HoldPre)
			sellDate, sellOK := cal.Shift(e.ExDate, +cfg.HoldPost)
			if !buyOK || !sellOK {
				continue
			}
			buyPrice, sellPrice := price[buyDate], price[sellDate]

			shares := cash.Mul(alloc).Div(buyPrice).Floor()
			if shares.LessThan(decimal.NewFromInt(1)) {
				continue
			}
			cost := shares.Mul(buyPrice)
			if cost.GreaterThan(cash.Mul(cashGuard)) {
				continue
			}

			cash = cash.Sub(cost)
			divCash := e.Amount.Mul(shares)
			proceeds := shares.Mul(sellPrice)
			cash = cash.Add(proceeds).Add(divCash)
			pnl := proceeds.Add(divCash).Sub(cost)

			trades = append(trades, SimulatedTrade{
				Symbol:       c.Symbol,
				ExDate:       e.ExDate,
				BuyDate:      buyDate,
				SellDate:     sellDate,
				BuyPrice:     buyPrice,
				SellPrice:    sellPrice,
				Shares:       shares,
				DividendCash: M(divCash, cfg.Currency),
				PnL:          M(pnl, cfg.Currency),
			})
			curve = append(curve, rawEquityPoint{date: sellDate, equity: cash})
		}
	}

	bt := Backtest{
		Trades:      trades,
		Curve:       consolidate(curve, cfg.Currency),
		InitialCash: M(cfg.InitialCash, cfg.Currency),
		FinalEquity: M(cash, cfg.Currency),
	}
	if len(trades) > 0 {
		wins := 0
		for _, t := range trades {
			if t.PnL.IsPositive() {
				wins++
			}
		}
		bt.WinRate = Percent(100 * float64(wins) / float64(len(trades)))
	}
	if n := len(bt.Curve); n > 0 {
		bt.CumReturn = bt.Curve[n-1].Cumulative
	}
	return bt, nil
}

type rawEquityPoint struct {
	date   date.Date
	equity decimal.Decimal
}

// consolidate reduces the raw per-trade equity points to one point per date
// (last value wins), ascending, with step and compounded returns.
func consolidate(raw []rawEquityPoint, currency string) []EquityPoint {
	if len(raw) == 0 {
		return nil
	}
	last := make(map[date.Date]decimal.Decimal, len(raw))
	for _, p := range raw {
		last[p.date] = p.equity
	}
	days := make([]date.Date, 0, len(last))
	for d := range last {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	curve := make([]EquityPoint, len(days))
	cum := 1.0
	for i, d := range days {
		p := EquityPoint{Date: d, Equity: M(last[d], currency)}
		if i > 0 {
			prev := last[days[i-1]]
			step := last[d].Div(prev).InexactFloat64() - 1
			p.Return = Percent(100 * step)
			cum *= 1 + step
		}
		p.Cumulative = Percent(100 * (cum - 1))
		curve[i] = p
	}
	return curve
}
