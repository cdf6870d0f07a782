package rotation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/etnz/rotation/date"
)

// fakeGateway serves canned data, and canned failures, per symbol.
type fakeGateway struct {
	prices    map[string][]Candle
	dividends map[string][]DividendEvent
	upcoming  []DividendEvent
	holidays  map[date.Date]bool
	universe  []Instrument
	broken    map[string]bool // symbols whose market data calls fail
}

func (g *fakeGateway) Screen(q ScreenQuery) ([]Instrument, error) { return g.universe, nil }

func (g *fakeGateway) EndOfDayPrices(symbol string, from, to date.Date) ([]Candle, error) {
	if g.broken[symbol] {
		return nil, &GatewayError{Op: "eod prices", Symbol: symbol, Err: ErrGatewayUnavailable}
	}
	return g.prices[symbol], nil
}

func (g *fakeGateway) DividendHistory(symbol string, from, to date.Date) ([]DividendEvent, error) {
	if g.broken[symbol] {
		return nil, &GatewayError{Op: "dividends", Symbol: symbol, Err: ErrGatewayUnavailable}
	}
	return g.dividends[symbol], nil
}

func (g *fakeGateway) UpcomingDividends(symbols []string, from, to date.Date) ([]DividendEvent, error) {
	return g.upcoming, nil
}

func (g *fakeGateway) ExchangeHolidays(exchange string, from, to date.Date) (map[date.Date]bool, error) {
	return g.holidays, nil
}

var _ Gateway = (*fakeGateway)(nil)

// flatSeries builds weekday candles in [from, to] at the given adjusted
// close, with overrides for specific dates.
func flatSeries(from, to date.Date, close float64, overrides map[date.Date]float64) []Candle {
	cal := BuildCalendar(from, to, nil)
	candles := make([]Candle, 0, cal.Len())
	for _, d := range cal.Days() {
		px := close
		if v, ok := overrides[d]; ok {
			px = v
		}
		dec := decimal.NewFromFloat(px)
		candles = append(candles, Candle{Date: d, Open: dec, High: dec, Low: dec, Close: dec, AdjustedClose: dec, Volume: 1000})
	}
	return candles
}

func oneCandidate(symbol string) []ScoredCandidate {
	return []ScoredCandidate{{Instrument: Instrument{Symbol: symbol, LastClose: decimal.NewFromInt(50)}}}
}

func baseSimulation() Simulation {
	return Simulation{
		Range:         date.Range{From: date.New(2025, 6, 1), To: date.New(2025, 6, 30)},
		InitialCash:   decimal.NewFromInt(10000),
		Currency:      "USD",
		HoldPre:       2,
		HoldPost:      1,
		AllocFraction: 0.5,
		TopK:          1,
	}
}

func TestSimulateRoundTrip(t *testing.T) {
	// One dividend of $0.50 with ex-date on a Sunday. The buy lands two
	// sessions before the prior Friday, the sell one session after it.
	sell := date.New(2025, 6, 16) // Monday after the ex-date
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"SCHD.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 50.00,
				map[date.Date]float64{sell: 50.30}),
		},
		dividends: map[string][]DividendEvent{
			"SCHD.US": {{Symbol: "SCHD.US", ExDate: date.New(2025, 6, 15), Amount: decimal.NewFromFloat(0.50), Currency: "USD"}},
		},
	}

	bt, err := Simulate(gw, oneCandidate("SCHD.US"), baseSimulation())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(bt.Trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(bt.Trades))
	}
	tr := bt.Trades[0]
	if tr.BuyDate != date.New(2025, 6, 11) {
		t.Errorf("buy date = %s, want 2025-06-11", tr.BuyDate)
	}
	if tr.SellDate != sell {
		t.Errorf("sell date = %s, want %s", tr.SellDate, sell)
	}
	if !tr.Shares.Equal(decimal.NewFromInt(100)) {
		t.Errorf("shares = %s, want 100", tr.Shares)
	}
	// P&L = (50.30-50.00)*100 + 0.50*100 = $80.
	if !tr.PnL.Amount().Equal(decimal.NewFromInt(80)) {
		t.Errorf("pnl = %s, want 80", tr.PnL.Amount())
	}
	if !bt.FinalEquity.Amount().Equal(decimal.NewFromInt(10080)) {
		t.Errorf("final equity = %s, want 10080", bt.FinalEquity.Amount())
	}
	if bt.WinRate != Percent(100) {
		t.Errorf("win rate = %v, want 100%%", bt.WinRate)
	}
}

func TestSimulateNoBorrowing(t *testing.T) {
	// For every trade, cost must fit in the cash available when it opens.
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"A.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 40.00, nil),
		},
		dividends: map[string][]DividendEvent{
			"A.US": {
				{Symbol: "A.US", ExDate: date.New(2025, 6, 10), Amount: decimal.NewFromFloat(0.30)},
				{Symbol: "A.US", ExDate: date.New(2025, 6, 17), Amount: decimal.NewFromFloat(0.30)},
				{Symbol: "A.US", ExDate: date.New(2025, 6, 24), Amount: decimal.NewFromFloat(0.30)},
			},
		},
	}
	cfg := baseSimulation()
	cfg.AllocFraction = 0.9 // aggressive allocation exercises the cash guard

	bt, err := Simulate(gw, oneCandidate("A.US"), cfg)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	cash := cfg.InitialCash
	for _, tr := range bt.Trades {
		cost := tr.Shares.Mul(tr.BuyPrice)
		if cost.GreaterThan(cash) {
			t.Errorf("trade on %s cost %s exceeds cash %s", tr.BuyDate, cost, cash)
		}
		cash = cash.Sub(cost)
		if cash.IsNegative() {
			t.Errorf("cash went negative after buy on %s", tr.BuyDate)
		}
		cash = cash.Add(tr.Shares.Mul(tr.SellPrice)).Add(tr.DividendCash.Amount())
	}
}

func TestSimulateInsufficientFunds(t *testing.T) {
	gw := &fakeGateway{
		prices: map[string][]Candle{
			// Price far above any affordable allocation.
			"A.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 90000, nil),
		},
		dividends: map[string][]DividendEvent{
			"A.US": {{Symbol: "A.US", ExDate: date.New(2025, 6, 10), Amount: decimal.NewFromFloat(0.30)}},
		},
	}
	bt, err := Simulate(gw, oneCandidate("A.US"), baseSimulation())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(bt.Trades) != 0 {
		t.Errorf("unaffordable event must be skipped, got %d trades", len(bt.Trades))
	}
	if !bt.FinalEquity.Amount().Equal(decimal.NewFromInt(10000)) {
		t.Errorf("final equity = %s, want untouched 10000", bt.FinalEquity.Amount())
	}
}

func TestSimulateSkipsEventsOutsideWindow(t *testing.T) {
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"A.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 50, nil),
		},
		dividends: map[string][]DividendEvent{
			"A.US": {{Symbol: "A.US", ExDate: date.New(2025, 7, 15), Amount: decimal.NewFromFloat(0.30)}},
		},
	}
	bt, err := Simulate(gw, oneCandidate("A.US"), baseSimulation())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(bt.Trades) != 0 {
		t.Errorf("out-of-window events must be skipped")
	}
}

func TestSimulateSkipsShortHistory(t *testing.T) {
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"A.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 6), 50, nil), // 5 sessions
		},
		dividends: map[string][]DividendEvent{
			"A.US": {{Symbol: "A.US", ExDate: date.New(2025, 6, 4), Amount: decimal.NewFromFloat(0.30)}},
		},
	}
	bt, err := Simulate(gw, oneCandidate("A.US"), baseSimulation())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(bt.Trades) != 0 {
		t.Errorf("instruments with too little history must be skipped entirely")
	}
}

func TestSimulatePartialResultsOnGatewayFailure(t *testing.T) {
	sell := date.New(2025, 6, 16)
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"GOOD.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 50.00,
				map[date.Date]float64{sell: 50.30}),
		},
		dividends: map[string][]DividendEvent{
			"GOOD.US": {{Symbol: "GOOD.US", ExDate: date.New(2025, 6, 13), Amount: decimal.NewFromFloat(0.50)}},
		},
		broken: map[string]bool{"BAD.US": true},
	}
	candidates := []ScoredCandidate{
		{Instrument: Instrument{Symbol: "BAD.US"}},
		{Instrument: Instrument{Symbol: "GOOD.US"}},
	}
	bt, err := Simulate(gw, candidates, baseSimulation())
	if err != nil {
		t.Fatalf("a broken instrument must not fail the backtest: %v", err)
	}
	if len(bt.Trades) != 1 || bt.Trades[0].Symbol != "GOOD.US" {
		t.Errorf("want one trade on GOOD.US, got %+v", bt.Trades)
	}
}

func TestSimulateEquityCurve(t *testing.T) {
	gw := &fakeGateway{
		prices: map[string][]Candle{
			"A.US": flatSeries(date.New(2025, 6, 2), date.New(2025, 6, 27), 50.00,
				map[date.Date]float64{
					date.New(2025, 6, 11): 50.00,
					date.New(2025, 6, 18): 50.00,
				}),
		},
		dividends: map[string][]DividendEvent{
			"A.US": {
				{Symbol: "A.US", ExDate: date.New(2025, 6, 10), Amount: decimal.NewFromFloat(1.00)},
				{Symbol: "A.US", ExDate: date.New(2025, 6, 17), Amount: decimal.NewFromFloat(1.00)},
			},
		},
	}
	bt, err := Simulate(gw, oneCandidate("A.US"), baseSimulation())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(bt.Curve) != 2 {
		t.Fatalf("curve points = %d, want 2", len(bt.Curve))
	}
	for i := 1; i < len(bt.Curve); i++ {
		if !bt.Curve[i-1].Date.Before(bt.Curve[i].Date) {
			t.Errorf("curve not ascending")
		}
	}
	if bt.Curve[0].Return != 0 {
		t.Errorf("first step return = %v, want 0", bt.Curve[0].Return)
	}
	// Flat prices: each trade nets exactly the dividend cash.
	last := bt.Curve[len(bt.Curve)-1]
	if !last.Equity.Amount().GreaterThan(decimal.NewFromInt(10000)) {
		t.Errorf("equity should grow by dividend cash, got %s", last.Equity.Amount())
	}
	if !last.Cumulative.Equal(bt.CumReturn) {
		t.Errorf("summary cum return %v != curve %v", bt.CumReturn, last.Cumulative)
	}
}
