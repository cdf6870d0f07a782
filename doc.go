// Package rotation implements a dividend-rotation strategy engine: it ranks
// dividend ETF candidates by yield, liquidity and ex-dividend proximity,
// schedules buy/sell dates around upcoming ex-dates on a trading calendar,
// and replays the rotation over historical data.
//
// Market data is supplied through the Gateway interface; the eodhd
// subpackage implements it over the EODHD REST API.
package rotation
