package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type libraryColumn struct {
	key   string
	label string
	width int
}

// LibraryModel represents the saved flows list screen.
type LibraryModel struct {
	allRows []model.FlowRow
	rows    []model.FlowRow
	cursor  int
	offset  int

	columns      []libraryColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string

	// ID of the entry awaiting delete confirmation
	confirmDelete string
}

// NewLibraryModel creates a new library model.
func NewLibraryModel(rows []model.FlowRow) *LibraryModel {
	m := &LibraryModel{
		allRows: append([]model.FlowRow(nil), rows...),
		columns: []libraryColumn{
			{key: "title", label: "Title", width: 28},
			{key: "quest", label: "Quest", width: 24},
			{key: "author", label: "Author", width: 14},
			{key: "rows", label: "Rows", width: 6},
			{key: "updated", label: "Updated", width: 14},
		},
	}
	m.rebuild()
	return m
}

// SetRows replaces the listed entries, keeping sort, filter and the
// selected entry when it is still present.
func (m *LibraryModel) SetRows(rows []model.FlowRow) {
	selected, ok := m.Selected()
	m.allRows = append([]model.FlowRow(nil), rows...)
	m.rebuild()
	if !ok {
		return
	}
	for i, r := range m.rows {
		if r.ID == selected.ID {
			m.cursor = i
			return
		}
	}
}

func (m *LibraryModel) ApplyPrefs(prefs TablePrefs) {
	for i, c := range m.columns {
		if c.key == prefs.SortKey {
			m.sortKey = prefs.SortKey
			m.sortDesc = prefs.SortDesc
		}
		if c.key == prefs.ActiveColumn {
			m.activeColumn = i
		}
	}
	m.rebuild()
}

func (m *LibraryModel) Prefs() TablePrefs {
	return TablePrefs{
		SortKey:      m.sortKey,
		SortDesc:     m.sortDesc,
		ActiveColumn: m.columns[m.activeColumn].key,
	}
}

func (m *LibraryModel) rebuild() {
	rows := append([]model.FlowRow(nil), m.allRows...)

	if m.filterKey != "" && m.filterValue != "" {
		filtered := make([]model.FlowRow, 0, len(rows))
		target := strings.TrimSpace(m.filterValue)
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(m.getValue(r, m.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if m.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(m.getValue(rows[i], m.sortKey))
			right := strings.ToLower(m.getValue(rows[j], m.sortKey))
			if left == right {
				return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
			}
			if m.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	m.rows = rows
	m.clampCursor()
}

func (m *LibraryModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = min(max(m.cursor, 0), len(m.rows)-1)
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m *LibraryModel) getValue(row model.FlowRow, key string) string {
	switch key {
	case "title":
		return row.Title
	case "quest":
		return row.Quest
	case "author":
		return row.Author
	case "rows":
		return fmt.Sprintf("%06d", row.RowCount)
	case "updated":
		return row.UpdatedAt.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// Selected returns the entry under the cursor.
func (m *LibraryModel) Selected() (model.FlowRow, bool) {
	if len(m.rows) == 0 {
		return model.FlowRow{}, false
	}
	return m.rows[m.cursor], true
}

// Len returns the number of listed entries.
func (m *LibraryModel) Len() int {
	return len(m.rows)
}

func (m *LibraryModel) NextColumn() {
	m.activeColumn = (m.activeColumn + 1) % len(m.columns)
}

func (m *LibraryModel) PrevColumn() {
	m.activeColumn--
	if m.activeColumn < 0 {
		m.activeColumn = len(m.columns) - 1
	}
}

func (m *LibraryModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(m.columns) {
		return false
	}
	m.activeColumn = number - 1
	return true
}

func (m *LibraryModel) SortActiveColumn(desc bool) {
	m.sortKey = m.columns[m.activeColumn].key
	m.sortDesc = desc
	m.rebuild()
}

func (m *LibraryModel) FilterBySelectedValue() bool {
	if len(m.rows) == 0 {
		return false
	}
	key := m.columns[m.activeColumn].key
	if key == "rows" || key == "updated" {
		return false
	}
	value := strings.TrimSpace(m.getValue(m.rows[m.cursor], key))
	if value == "" {
		return false
	}
	m.filterKey = key
	m.filterValue = value
	m.rebuild()
	return true
}

func (m *LibraryModel) ClearFilter() bool {
	if m.filterKey == "" {
		return false
	}
	m.filterKey = ""
	m.filterValue = ""
	m.rebuild()
	return true
}

func (m *LibraryModel) TableMeta(tr *i18n.Translator) string {
	parts := []string{tr.T("Column: %s", tr.T(m.columns[m.activeColumn].label))}
	if m.sortKey != "" {
		order := tr.T("asc")
		if m.sortDesc {
			order = tr.T("desc")
		}
		parts = append(parts, tr.T("sorted by %s %s", tr.T(m.labelFor(m.sortKey)), order))
	}
	if m.filterKey != "" {
		parts = append(parts, tr.T("filter %s=%q", tr.T(m.labelFor(m.filterKey)), m.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

func (m *LibraryModel) labelFor(key string) string {
	for _, c := range m.columns {
		if c.key == key {
			return c.label
		}
	}
	return key
}

// View renders the library list.
func (m *LibraryModel) View(width, height int, tr *i18n.Translator, now time.Time) string {
	if len(m.allRows) == 0 {
		emptyMsg := "    " + tr.T("No saved flows yet.") + "\n    " + tr.T("Press ctrl+n to start a new flow.")
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(emptyMsg)
	}

	widths := make([]int, len(m.columns))
	headers := make([]string, len(m.columns))
	total := 0
	for i, col := range m.columns {
		label := strings.ToUpper(tr.T(col.label))
		if i == m.activeColumn {
			label = "❋ " + label
		}
		if m.sortKey == col.key {
			if m.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		widths[i] = max(col.width, lipgloss.Width(label)+2)
		headers[i] = label
		total += widths[i]
	}
	if extra := width - total - 4; extra > 0 {
		widths[0] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle.Padding(0, 1))

	visibleHeight := height - 3
	if m.cursor >= m.offset+visibleHeight {
		m.offset = m.cursor - visibleHeight + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	var rows []string
	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == m.cursor {
			style = SelectedRowStyle
		}

		title := row.Title
		if title == "" {
			title = tr.T("Untitled")
		}
		cells := []string{
			title,
			row.Quest,
			row.Author,
			fmt.Sprintf("%d", row.RowCount),
			util.FormatUpdatedHuman(row.UpdatedAt, now),
		}
		rows = append(rows, renderTableRow(cells, widths, style.Padding(0, 1)))
	}

	filterInfo := ""
	if m.filterKey != "" {
		filterInfo = "  ·  " + tr.T("filtered: %d/%d", len(m.rows), len(m.allRows))
	}
	status := tr.T("Total flows: %d", len(m.rows)) + filterInfo + "  ·  " + m.TableMeta(tr)
	if m.confirmDelete != "" {
		if sel, ok := m.Selected(); ok {
			status = ErrorStyle.Render(tr.T("Delete %s? (y/n)", displayTitle(sel.Title, tr)))
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(rows, "\n"),
		"",
		StatusBarStyle.Render(status),
	)
}

// MoveDown moves the cursor down.
func (m *LibraryModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up.
func (m *LibraryModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// JumpToTop jumps to the first item.
func (m *LibraryModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *LibraryModel) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
}

func displayTitle(title string, tr *i18n.Translator) string {
	if strings.TrimSpace(title) == "" {
		return tr.T("Untitled")
	}
	return title
}
