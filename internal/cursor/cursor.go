// Package cursor tracks the playback row of the action table.
package cursor

import "fmt"

// RangeError is returned for a row outside 0..RowCount.
type RangeError struct {
	Row      int
	RowCount int
}

func (e *RangeError) Error() string {
	if e.Row < 0 {
		return "currentRowは0以上の数値である必要があります"
	}
	return fmt.Sprintf("currentRowはフローの行数(%d)以下の数値である必要があります", e.RowCount)
}

// Cursor is the current row during view-mode playback.
type Cursor struct {
	rowCount func() int
	editing  func() bool
	current  int
}

// New returns a cursor at row 0. rowCount reports the document's row count;
// editing reports whether the editor is in edit mode.
func New(rowCount func() int, editing func() bool) *Cursor {
	return &Cursor{rowCount: rowCount, editing: editing}
}

// Current returns the selected row.
func (c *Cursor) Current() int {
	return c.current
}

// SetCurrentRow moves the cursor. Row counts are inclusive: a flow with N
// rows accepts 0..N.
func (c *Cursor) SetCurrentRow(row int) error {
	n := c.rowCount()
	if row < 0 || row > n {
		return &RangeError{Row: row, RowCount: n}
	}
	c.current = row
	return nil
}

// Select is SetCurrentRow for UI navigation. It does nothing in edit mode
// and reports whether the row changed.
func (c *Cursor) Select(row int) (bool, error) {
	if c.editing != nil && c.editing() {
		return false, nil
	}
	if row == c.current {
		return false, nil
	}
	if err := c.SetCurrentRow(row); err != nil {
		return false, err
	}
	return true, nil
}

// Reset puts the cursor back on the first row.
func (c *Cursor) Reset() {
	c.current = 0
}
