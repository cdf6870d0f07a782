package rotation

import (
	"errors"
	"fmt"

	"github.com/etnz/rotation/date"
)

// ErrGatewayUnavailable marks terminal market-data failures: the upstream
// source could not be reached, or kept answering garbage, after the retry
// budget was spent. Match it with errors.Is.
var ErrGatewayUnavailable = errors.New("market data gateway unavailable")

// ErrEmptyUniverse is returned when no instrument survives screening.
var ErrEmptyUniverse = errors.New("no instrument in the candidate universe")

// GatewayError wraps a failed gateway operation with enough context to
// report it. It matches ErrGatewayUnavailable through errors.Is.
type GatewayError struct {
	Op     string // e.g. "eod prices"
	Symbol string // symbol or exchange the call was about, may be empty
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s for %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGatewayUnavailable }

// ScreenQuery filters the instrument universe.
type ScreenQuery struct {
	Exchange     string  // exchange code, e.g. "US"
	MinYield     float64 // minimum annualized dividend yield, as a fraction
	MinAvgVolume float64 // minimum average daily volume, in shares
	Limit        int     // maximum number of instruments to return
}

// Gateway supplies market data to the scoring, planning and simulation
// engines. Implementations must retry transient failures (rate limiting,
// timeouts) before giving up with a GatewayError, and must validate upstream
// records on ingestion so malformed data never reaches the engines.
type Gateway interface {
	// Screen returns the instrument universe matching the query.
	Screen(q ScreenQuery) ([]Instrument, error)

	// EndOfDayPrices returns the EOD candles for symbol in [from, to],
	// ascending by date.
	EndOfDayPrices(symbol string, from, to date.Date) ([]Candle, error)

	// DividendHistory returns realized dividend events for symbol in
	// [from, to], ascending by ex-date.
	DividendHistory(symbol string, from, to date.Date) ([]DividendEvent, error)

	// UpcomingDividends returns scheduled dividend events for the given
	// symbols in [from, to].
	UpcomingDividends(symbols []string, from, to date.Date) ([]DividendEvent, error)

	// ExchangeHolidays returns the known holiday dates of an exchange in
	// [from, to]. An empty set is a valid answer when the source does not
	// cover that exchange: calendars then degrade to plain business days.
	ExchangeHolidays(exchange string, from, to date.Date) (map[date.Date]bool, error)
}

// ValidateCandles checks an EOD series on ingestion: dates must be strictly
// ascending and closes positive. It reports the first offending record.
func ValidateCandles(symbol string, candles []Candle) error {
	var prev date.Date
	for i, c := range candles {
		if c.Date.IsZero() {
			return fmt.Errorf("%s: candle %d has no date", symbol, i)
		}
		if i > 0 && !c.Date.After(prev) {
			return fmt.Errorf("%s: candle dates not ascending at %s", symbol, c.Date)
		}
		if !c.Close.IsPositive() || !c.AdjustedClose.IsPositive() {
			return fmt.Errorf("%s: non-positive close on %s", symbol, c.Date)
		}
		prev = c.Date
	}
	return nil
}

// ValidateDividends checks dividend events on ingestion: amounts must not be
// negative and every event needs an ex-date.
func ValidateDividends(symbol string, events []DividendEvent) error {
	for i, e := range events {
		if e.ExDate.IsZero() {
			return fmt.Errorf("%s: dividend event %d has no ex-date", symbol, i)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%s: negative dividend amount on %s", symbol, e.ExDate)
		}
	}
	return nil
}
