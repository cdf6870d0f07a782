package renderer

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/etnz/rotation"
)

// CSV exports of the plan and trade-log tables, meant for reconciliation by
// downstream order-management tooling: exactly one record per input row.

// WritePlanCSV writes the forward plan as CSV.
func WritePlanCSV(w io.Writer, plan []rotation.PlannedTrade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "name", "ex_date", "amount", "currency", "plan_buy_date", "plan_sell_date", "estimated_pct_gain", "note"}); err != nil {
		return err
	}
	for _, p := range plan {
		record := []string{
			p.Symbol, p.Name, p.ExDate.String(), p.Amount.StringFixed(4), p.Currency,
			cell(p.BuyDate), cell(p.SellDate), p.EstimatedGain.String(), p.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes the simulated trade log as CSV.
func WriteTradesCSV(w io.Writer, trades []rotation.SimulatedTrade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "ex_date", "buy_date", "buy_price", "sell_date", "sell_price", "shares", "dividend_cash", "pnl"}); err != nil {
		return err
	}
	for _, t := range trades {
		record := []string{
			t.Symbol, t.ExDate.String(), t.BuyDate.String(), t.BuyPrice.StringFixed(4),
			t.SellDate.String(), t.SellPrice.StringFixed(4), t.Shares.String(),
			t.DividendCash.Amount().StringFixed(2), t.PnL.Amount().StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEquityCSV writes the consolidated equity curve as CSV.
func WriteEquityCSV(w io.Writer, curve []rotation.EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "equity", "return", "cum_return"}); err != nil {
		return err
	}
	for _, p := range curve {
		record := []string{
			p.Date.String(), p.Equity.Amount().StringFixed(2),
			strconv.FormatFloat(float64(p.Return)/100, 'f', 6, 64),
			strconv.FormatFloat(float64(p.Cumulative)/100, 'f', 6, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
