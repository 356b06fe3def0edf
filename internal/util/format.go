package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatUpdatedHuman formats a library timestamp relative to now.
// "Today 14:05", "Yesterday", "3d ago", "Jan 15", "Jan 15 '24"
func FormatUpdatedHuman(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days == 0:
		return "Today " + t.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// Ambiguous-width runes such as "…" are one cell, matching lipgloss.
var cells = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Truncate shortens s to at most width terminal cells, marking the cut
// with "…". Wide (CJK) characters count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = SingleLine(s)
	if cells.StringWidth(s) <= width {
		return s
	}
	return cells.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to width cells, truncating first if needed.
func Pad(s string, width int) string {
	return cells.FillRight(Truncate(s, width), width)
}

// SingleLine collapses line breaks and tabs so a cell renders on one line.
func SingleLine(s string) string {
	return strings.NewReplacer("\r\n", " ⏎ ", "\n", " ⏎ ", "\t", " ").Replace(s)
}

// Width returns the display width of s in terminal cells.
func Width(s string) int {
	return cells.StringWidth(s)
}
