package rotation

import (
	"fmt"

	"github.com/etnz/rotation/date"
)

// FetchUniverse screens the instrument universe and annotates each
// instrument with its earliest upcoming ex-dividend event inside the
// lookahead window.
//
// Unlike the simulator, a gateway failure here is fatal: an incomplete
// candidate universe would silently bias the strategy, so scoring fails
// outright rather than ranking whatever happened to load.
func FetchUniverse(gw Gateway, q ScreenQuery, lookaheadDays int, today date.Date) ([]Instrument, error) {
	instruments, err := gw.Screen(q)
	if err != nil {
		return nil, fmt.Errorf("screening universe: %w", err)
	}
	if len(instruments) == 0 {
		return nil, ErrEmptyUniverse
	}

	symbols := make([]string, len(instruments))
	for i, in := range instruments {
		symbols[i] = in.Symbol
	}
	events, err := gw.UpcomingDividends(symbols, today, today.Add(lookaheadDays))
	if err != nil {
		return nil, fmt.Errorf("fetching dividend calendar: %w", err)
	}

	// Earliest upcoming event per symbol.
	next := make(map[string]DividendEvent, len(events))
	for _, e := range events {
		if e.ExDate.Before(today) {
			continue
		}
		if cur, ok := next[e.Symbol]; !ok || e.ExDate.Before(cur.ExDate) {
			next[e.Symbol] = e
		}
	}
	for i := range instruments {
		if e, ok := next[instruments[i].Symbol]; ok {
			instruments[i].NextExDate = e.ExDate
			instruments[i].NextAmount = e.Amount
		}
	}
	return instruments, nil
}
