// Package renderer formats scoring, planning and backtest results as
// markdown reports and CSV tables. It only consumes the output value types;
// it never reaches back into the engines.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rotation/date"
)

// reportRenderer accumulates a markdown report.
type reportRenderer struct {
	*strings.Builder
}

func newReport() *reportRenderer { return &reportRenderer{Builder: &strings.Builder{}} }

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *reportRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// cell renders a date for a table cell, with a dash for "no date".
func cell(d date.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
