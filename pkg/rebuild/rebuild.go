// Package rebuild reconstructs the full output table from the original rows
// and the current entry values.
package rebuild

import (
	"fmt"
	"strings"

	"tableflip.dev/buttercsv/pkg/dedupe"
	"tableflip.dev/buttercsv/pkg/table"
	"tableflip.dev/buttercsv/pkg/wrap"
)

// OutputRow holds CSV-encoded fields ready to be comma-joined.
type OutputRow struct {
	Location string
	Source   string
	Target   string
}

// Line joins the fields with commas.
func (r OutputRow) Line() string {
	return r.Location + "," + r.Source + "," + r.Target
}

// Engine rebuilds rows using Wrapper for every edited target.
type Engine struct {
	Wrapper wrap.Wrapper
}

// Rebuild returns one output row per input row, in order, and a warning for
// each row whose wrapped text runs past the line budget. Targets found in
// entries take the current value, re-wrapped and always quoted. Other targets
// pass through untouched, quoted only when CSV requires it.
func (e Engine) Rebuild(rows []table.Row, entries *dedupe.Entries) ([]OutputRow, []string) {
	out := make([]OutputRow, 0, len(rows))
	var warnings []string

	for _, row := range rows {
		target := QuoteIfNeeded(row.Target)

		if entries != nil {
			if value, ok := entries.Get(dedupe.Key(row.Target)); ok {
				lines, over := e.Wrapper.Wrap(value)
				target = Quote(strings.Join(lines, "\n"))
				if over {
					warnings = append(warnings, fmt.Sprintf("%s,%s exceeded line limit with %d lines",
						row.Location, row.Source, len(lines)))
				}
			}
		}

		out = append(out, OutputRow{
			Location: QuoteIfNeeded(row.Location),
			Source:   QuoteIfNeeded(row.Source),
			Target:   target,
		})
	}
	return out, warnings
}

// Quote wraps s in double quotes, doubling any quote inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteIfNeeded quotes s only when it holds a comma, a line break or a quote.
func QuoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\n\r\"") {
		return Quote(s)
	}
	return s
}
