package paste

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStartField means the anchor column is not in the table.
	ErrInvalidStartField = errors.New("invalid start field")
	// ErrTooManyColumns means the pasted block is wider than the table.
	ErrTooManyColumns = errors.New("too many columns")
	// ErrNoValidRows means the pasted text had no non-empty line.
	ErrNoValidRows = errors.New("no valid rows")
)

// MapRows maps a parsed grid onto partial rows keyed by field name, starting
// at startField. When the block is wider than the columns left of the anchor,
// the anchor moves left just enough for the whole block to fit.
func MapRows(grid [][]string, startField string, fieldOrder []string) ([]map[string]string, error) {
	if len(grid) == 0 {
		return nil, ErrNoValidRows
	}

	start := -1
	for i, f := range fieldOrder {
		if f == startField {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartField, startField)
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}

	if available := len(fieldOrder) - start; width > available {
		start -= width - available
		if start < 0 {
			return nil, fmt.Errorf("%w: %d columns pasted into a table of %d", ErrTooManyColumns, width, len(fieldOrder))
		}
	}

	out := make([]map[string]string, 0, len(grid))
	for _, row := range grid {
		partial := make(map[string]string, len(row))
		for j, cell := range row {
			idx := start + j
			if idx >= len(fieldOrder) {
				break
			}
			partial[fieldOrder[idx]] = cell
		}
		out = append(out, partial)
	}
	return out, nil
}
