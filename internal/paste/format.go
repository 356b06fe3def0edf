package paste

import "strings"

// QuoteCell quotes a cell so ParseTSV reads it back as one cell. Cells
// containing a quote, tab or line break are wrapped in double quotes with
// embedded quotes doubled.
func QuoteCell(s string) string {
	if !strings.ContainsAny(s, "\"\t\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatTSV renders rows as tab-separated text, one line per row.
func FormatTSV(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(QuoteCell(cell))
		}
	}
	return b.String()
}
