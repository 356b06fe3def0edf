// Package paste turns clipboard text into action table rows.
package paste

import "strings"

// ParseTSV splits tab-separated text into rows of trimmed cells.
//
// Tabs and line breaks inside a double-quoted field are kept as text, and a
// doubled quote inside quotes stands for one literal quote. Rows whose cells
// are all empty are dropped. An unterminated quote keeps the rest of the
// input quoted.
func ParseTSV(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)

	endCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	endRow := func() {
		endCell()
		if !allEmpty(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cell.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case inQuotes:
			cell.WriteRune(c)
		case c == '\t':
			endCell()
		case c == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			i++
			endRow()
		case c == '\n':
			endRow()
		default:
			cell.WriteRune(c)
		}
	}
	if cell.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
