package eodhd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/rotation"
	"github.com/etnz/rotation/date"
)

// This file contains the gateway operations over the EODHD endpoints.

// Screen returns the ETF universe matching the query, via the /screener
// endpoint. Results are capped at 200 by the API.
func (c *Client) Screen(q rotation.ScreenQuery) ([]rotation.Instrument, error) {
	filters, err := json.Marshal([]interface{}{
		[]interface{}{"is_etf", true},
		[]interface{}{"exchange", q.Exchange},
		[]interface{}{"dividend_yield", "gte", q.MinYield},
		[]interface{}{"avgvol", "gte", q.MinAvgVolume},
	})
	if err != nil {
		return nil, &rotation.GatewayError{Op: "screen", Err: err}
	}
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	params := url.Values{}
	params.Set("filters", string(filters))
	params.Set("sort", "dividend_yield.desc")
	params.Set("limit", strconv.Itoa(limit))

	type item struct {
		Code          string          `json:"code"`
		Exchange      string          `json:"exchange"`
		Name          string          `json:"name"`
		AvgVol        float64         `json:"avgvol"`
		DividendYield float64         `json:"dividend_yield"`
		Close         decimal.Decimal `json:"close"`
	}
	var content []item
	if err := c.get(c.addr("/screener", params), &content); err != nil {
		return nil, &rotation.GatewayError{Op: "screen", Err: err}
	}

	instruments := make([]rotation.Instrument, 0, len(content))
	for _, it := range content {
		if it.Code == "" {
			continue
		}
		exchange := it.Exchange
		if exchange == "" {
			exchange = q.Exchange
		}
		instruments = append(instruments, rotation.Instrument{
			Symbol:    strings.ToUpper(it.Code) + "." + strings.ToUpper(exchange),
			Name:      it.Name,
			Yield:     it.DividendYield,
			AvgVolume: it.AvgVol,
			LastClose: it.Close,
		})
	}
	return instruments, nil
}

// EndOfDayPrices returns daily candles for a ticker in [from, to], ascending.
//
// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
//
//	[{"date": "2024-02-13", "open": 675.066, ..., "adjusted_close": 67.705, "volume": 0}, ...]
func (c *Client) EndOfDayPrices(symbol string, from, to date.Date) ([]rotation.Candle, error) {
	params := url.Values{}
	params.Set("from", from.String())
	params.Set("to", to.String())
	params.Set("order", "a")

	var candles []rotation.Candle
	if err := c.get(c.addr("/eod/"+symbol, params), &candles); err != nil {
		return nil, &rotation.GatewayError{Op: "eod prices", Symbol: symbol, Err: err}
	}
	if err := rotation.ValidateCandles(symbol, candles); err != nil {
		return nil, &rotation.GatewayError{Op: "eod prices", Symbol: symbol, Err: err}
	}
	return candles, nil
}

// DividendHistory returns realized dividends for a ticker in [from, to].
// The /div endpoint reports the ex-dividend date in the "date" field and the
// per-share amount in "value", see
// https://eodhd.com/financial-apis/api-splits-dividends
func (c *Client) DividendHistory(symbol string, from, to date.Date) ([]rotation.DividendEvent, error) {
	params := url.Values{}
	params.Set("from", from.String())
	params.Set("to", to.String())

	type apiDividend struct {
		Date     date.Date       `json:"date"`
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}
	var content []apiDividend
	if err := c.get(c.addr("/div/"+symbol, params), &content); err != nil {
		return nil, &rotation.GatewayError{Op: "dividends", Symbol: symbol, Err: err}
	}

	events := make([]rotation.DividendEvent, 0, len(content))
	for _, d := range content {
		currency := d.Currency
		if currency == "" {
			currency = "USD"
		}
		events = append(events, rotation.DividendEvent{
			Symbol:   symbol,
			ExDate:   d.Date,
			Amount:   d.Value,
			Currency: currency,
		})
	}
	if err := rotation.ValidateDividends(symbol, events); err != nil {
		return nil, &rotation.GatewayError{Op: "dividends", Symbol: symbol, Err: err}
	}
	return events, nil
}

// UpcomingDividends returns scheduled dividend events for the given symbols
// in [from, to], via /calendar/dividends. The endpoint answers either a bare
// list or an object with an "events" list, and names fields inconsistently
// across plans, so decoding is deliberately tolerant.
func (c *Client) UpcomingDividends(symbols []string, from, to date.Date) ([]rotation.DividendEvent, error) {
	params := url.Values{}
	params.Set("from", from.String())
	params.Set("to", to.String())
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}

	var doc interface{}
	if err := c.get(c.addr("/calendar/dividends", params), &doc); err != nil {
		return nil, &rotation.GatewayError{Op: "dividend calendar", Err: err}
	}

	raw := doc
	if obj, ok := doc.(map[string]interface{}); ok {
		raw = obj["events"]
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}

	events := make([]rotation.DividendEvent, 0, len(list))
	for _, entry := range list {
		item, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		code := str(item, "code", "symbol")
		exDate := str(item, "exDate", "ex_date", "date")
		if code == "" || exDate == "" {
			continue
		}
		ex, err := date.Parse(exDate)
		if err != nil {
			continue
		}
		currency := str(item, "currency")
		if currency == "" {
			currency = "USD"
		}
		events = append(events, rotation.DividendEvent{
			Symbol:   qualify(code, symbols),
			ExDate:   ex,
			Amount:   decimal.NewFromFloat(num(item, "amount", "value", "dividend")),
			Currency: currency,
		})
	}
	if err := rotation.ValidateDividends("calendar", events); err != nil {
		return nil, &rotation.GatewayError{Op: "dividend calendar", Err: err}
	}
	return events, nil
}

// ExchangeHolidays returns the exchange's holiday dates in [from, to], via
// /exchange-details. An exchange with no published holidays yields an empty
// set, not an error: callers fall back to a plain business-day calendar.
func (c *Client) ExchangeHolidays(exchange string, from, to date.Date) (map[date.Date]bool, error) {
	params := url.Values{}
	params.Set("from", from.String())
	params.Set("to", to.String())

	var doc interface{}
	if err := c.get(c.addr("/exchange-details/"+exchange, params), &doc); err != nil {
		return nil, &rotation.GatewayError{Op: "exchange holidays", Symbol: exchange, Err: err}
	}

	// The holiday list moved between payload shapes over API versions:
	// sometimes "ExchangeHolidays" (an object keyed by index), sometimes
	// "Holidays" (a list). jsonpath shields us from caring which.
	holidays := make(map[date.Date]bool)
	for _, path := range []string{"$.ExchangeHolidays", "$.Holidays"} {
		container, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		for _, entry := range values(container) {
			item, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			d, err := date.Parse(str(item, "Date", "date"))
			if err != nil {
				continue
			}
			if !d.Before(from) && !d.After(to) {
				holidays[d] = true
			}
		}
	}
	return holidays, nil
}

// str returns the first of the named fields holding a non-empty string.
func str(item map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// num returns the first of the named fields holding a number.
func num(item map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := item[k].(float64); ok {
			return f
		}
	}
	return 0
}

// values flattens a decoded JSON container, object or list, into its values.
func values(container interface{}) []interface{} {
	switch c := container.(type) {
	case []interface{}:
		return c
	case map[string]interface{}:
		out := make([]interface{}, 0, len(c))
		for _, v := range c {
			out = append(out, v)
		}
		return out
	}
	return nil
}

// qualify resolves a bare calendar code against the requested symbols, so
// "SCHD" comes back as "SCHD.US" when that is what was asked for.
func qualify(code string, symbols []string) string {
	if strings.Contains(code, ".") {
		return code
	}
	prefix := strings.ToUpper(code) + "."
	for _, s := range symbols {
		if strings.HasPrefix(strings.ToUpper(s), prefix) {
			return s
		}
	}
	return fmt.Sprintf("%s.US", strings.ToUpper(code))
}
