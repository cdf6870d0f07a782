package rotation

import (
	"github.com/shopspring/decimal"

	"github.com/etnz/rotation/date"
)

// Instrument is one tradeable security candidate, built fresh from a market
// data snapshot on every scoring run.
type Instrument struct {
	Symbol    string // exchange-qualified, e.g. "SCHD.US"
	Name      string
	Yield     float64 // annualized dividend yield, as a fraction (0.03 = 3%)
	AvgVolume float64 // average daily volume in shares
	LastClose decimal.Decimal

	// Next known ex-dividend event, when one is scheduled inside the
	// lookahead window. NextExDate is zero when none is known.
	NextExDate date.Date
	NextAmount decimal.Decimal
}

// HasUpcomingDividend reports whether a next ex-dividend date is known.
func (i Instrument) HasUpcomingDividend() bool { return !i.NextExDate.IsZero() }

// ScoredCandidate is an Instrument with its normalized sub-scores and the
// weighted composite used for ranking.
type ScoredCandidate struct {
	Instrument

	YieldScore     float64 // min-max normalized over the candidate set
	LiquidityScore float64 // min-max normalized over the candidate set
	ProximityScore float64 // 1.0 = ex-date today, 0.0 = unknown or outside window

	Composite float64 // weighted blend, always in [0,1]
}

// DividendEvent is one realized or scheduled dividend payment.
type DividendEvent struct {
	Symbol   string
	ExDate   date.Date
	Amount   decimal.Decimal // per share
	Currency string
}

// Candle is one end-of-day price record.
type Candle struct {
	Date          date.Date       `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        int64           `json:"volume"`
}

// PlannedTrade is one row of the forward buy/sell schedule.
//
// BuyDate and SellDate are zero when the corresponding trading-day shift
// could not be resolved near the edge of the calendar; in that case Note
// explains why, and the row is still emitted so downstream exports keep a
// stable row count.
type PlannedTrade struct {
	Symbol   string
	Name     string
	ExDate   date.Date
	Amount   decimal.Decimal
	Currency string

	BuyDate  date.Date
	SellDate date.Date

	EstimatedGain Percent // dividend amount over reference price
	Note          string
}

// SimulatedTrade is one completed round-trip in the historical simulator.
type SimulatedTrade struct {
	Symbol    string
	ExDate    date.Date
	BuyDate   date.Date
	SellDate  date.Date
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Shares    decimal.Decimal // whole shares, kept as decimal for arithmetic

	DividendCash Money
	PnL          Money
}

// EquityPoint is one consolidated point of the backtest equity curve.
type EquityPoint struct {
	Date       date.Date
	Equity     Money
	Return     Percent // step return over the previous point
	Cumulative Percent // compounded return since the first point
}

// Backtest is the result of one historical rotation replay.
type Backtest struct {
	Trades []SimulatedTrade
	Curve  []EquityPoint

	InitialCash Money
	FinalEquity Money
	WinRate     Percent
	CumReturn   Percent
}
