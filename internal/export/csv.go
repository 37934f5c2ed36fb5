// Package export produces the back-office CSV downloads in the
// portal's legacy format: a header line, then one line per row, every
// field double-quoted with embedded quotes doubled. Downstream
// spreadsheets were built against this exact shape, so encoding/csv's
// minimal quoting is not an option here.
package export

import "strings"

// Build renders a header and rows as legacy CSV text.
func Build(header []string, rows [][]string) string {
	var b strings.Builder
	writeLine(&b, header)
	for _, row := range rows {
		writeLine(&b, row)
	}
	return b.String()
}

func writeLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
