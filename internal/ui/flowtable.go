package ui

import (
	"fmt"
	"strings"
	"time"

	"questflow/internal/editor"
	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/settings"
	"questflow/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Two presses on the same row within this window count as a double click.
const doubleClickWindow = 400 * time.Millisecond

const gutterWidth = 5

type flowColumn struct {
	field string
	label string
	width int
}

// FlowTableModel renders the action table and owns the cell editor.
// The playback row lives in the editor session; the edit focus row is local.
type FlowTableModel struct {
	columns []flowColumn
	col     int
	row     int
	offset  int

	editing bool
	input   textinput.Model
	before  string

	lastClickRow int
	lastClickAt  time.Time
}

// NewFlowTableModel creates an empty table view.
func NewFlowTableModel() *FlowTableModel {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 500

	return &FlowTableModel{
		columns: []flowColumn{
			{field: model.FieldHP, label: "HP", width: 7},
			{field: model.FieldPrediction, label: "Prediction", width: 22},
			{field: model.FieldCharge, label: "Charge", width: 6},
			{field: model.FieldGuard, label: "Guard", width: 6},
			{field: model.FieldAction, label: "Action", width: 28},
			{field: model.FieldNote, label: "Note", width: 16},
		},
		input:        in,
		lastClickRow: -1,
	}
}

// Field returns the active column's field name.
func (t *FlowTableModel) Field() string {
	return t.columns[t.col].field
}

// Row returns the edit focus row.
func (t *FlowTableModel) Row() int {
	return t.row
}

// SetRow moves the edit focus, clamped to the table.
func (t *FlowTableModel) SetRow(row, rowCount int) {
	t.row = min(max(row, 0), max(rowCount-1, 0))
}

// MoveDown moves the edit focus down.
func (t *FlowTableModel) MoveDown(rowCount int) {
	t.SetRow(t.row+1, rowCount)
}

// MoveUp moves the edit focus up.
func (t *FlowTableModel) MoveUp(rowCount int) {
	t.SetRow(t.row-1, rowCount)
}

func (t *FlowTableModel) NextColumn() {
	t.col = (t.col + 1) % len(t.columns)
}

func (t *FlowTableModel) PrevColumn() {
	t.col--
	if t.col < 0 {
		t.col = len(t.columns) - 1
	}
}

func (t *FlowTableModel) JumpToColumn(number int) bool {
	if number < 1 || number > len(t.columns) {
		return false
	}
	t.col = number - 1
	return true
}

func (t *FlowTableModel) TableMeta(tr *i18n.Translator) string {
	return tr.T("Column: %s", tr.T(t.columns[t.col].label))
}

// Reset returns focus and scroll to the top, e.g. after a new document.
func (t *FlowTableModel) Reset() {
	t.CancelEdit()
	t.row = 0
	t.offset = 0
	t.lastClickRow = -1
}

// Editing reports whether the cell editor is open.
func (t *FlowTableModel) Editing() bool {
	return t.editing
}

// BeginEdit opens the cell editor on the active cell holding value.
func (t *FlowTableModel) BeginEdit(value string) tea.Cmd {
	t.editing = true
	t.before = value
	t.input.SetValue(value)
	t.input.CursorEnd()
	return t.input.Focus()
}

// EndEdit closes the editor and returns the typed value and whether it
// differs from what the cell held.
func (t *FlowTableModel) EndEdit() (string, bool) {
	value := t.input.Value()
	changed := value != t.before
	t.CancelEdit()
	return value, changed
}

// CancelEdit closes the editor without reporting a value.
func (t *FlowTableModel) CancelEdit() {
	t.editing = false
	t.before = ""
	t.input.Blur()
	t.input.SetValue("")
}

// UpdateInput forwards a message to the cell editor.
func (t *FlowTableModel) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd
}

// RowAt maps a line offset inside the table (0 is the header) to a row
// index. The end marker line maps to rowCount.
func (t *FlowTableModel) RowAt(line, rowCount int) (int, bool) {
	if line < 1 {
		return 0, false
	}
	row := t.offset + line - 1
	if row > rowCount {
		return 0, false
	}
	return row, true
}

// Click records a press on row and reports whether it activates the row
// under the given click mode.
func (t *FlowTableModel) Click(row int, clickMode string, now time.Time) bool {
	if clickMode != settings.ClickDouble {
		t.lastClickRow = -1
		return true
	}
	double := row == t.lastClickRow && now.Sub(t.lastClickAt) <= doubleClickWindow
	if double {
		t.lastClickRow = -1
		return true
	}
	t.lastClickRow = row
	t.lastClickAt = now
	return false
}

func (t *FlowTableModel) scrollTo(row, visible int) {
	if visible < 1 {
		visible = 1
	}
	if row < t.offset {
		t.offset = row
	}
	if row >= t.offset+visible {
		t.offset = row - visible + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *FlowTableModel) widths(width, padding int) []int {
	widths := make([]int, len(t.columns))
	total := gutterWidth
	for i, c := range t.columns {
		widths[i] = c.width + 2*padding
		total += widths[i]
	}
	if extra := width - total - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}
	return widths
}

// View renders the table for the session's document.
func (t *FlowTableModel) View(width, height int, s *editor.Session, st settings.Settings, tr *i18n.Translator) string {
	rowCount := s.RowCount()
	current := s.CurrentRow()
	editMode := s.Editing()
	if editMode {
		t.SetRow(t.row, rowCount)
	}

	visible := height - 3
	focus := current
	if editMode {
		focus = t.row
	}
	t.scrollTo(focus, visible)

	widths := t.widths(width, st.TablePadding)

	var headers []string
	for i, c := range t.columns {
		label := tr.T(c.label)
		if editMode && i == t.col {
			label = "❋ " + label
		}
		headers = append(headers, label)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		TableHeaderStyle.Width(gutterWidth).Render("#"),
		renderTableRow(headers, widths, TableHeaderStyle.Padding(0, st.TablePadding)),
	)

	var lines []string
	for i := t.offset; i <= rowCount && len(lines) < visible; i++ {
		if i == rowCount {
			lines = append(lines, t.renderEndMarker(width, !editMode && current == rowCount, tr))
			continue
		}
		action, _ := s.Action(i)
		lines = append(lines, t.renderActionRow(i, action, widths, st.TablePadding, editMode, current))
	}

	var status string
	if current >= rowCount {
		status = tr.T("End of flow") + "  ·  " + tr.T("%d rows", rowCount)
	} else {
		status = tr.T("Row %d of %d", current+1, rowCount)
	}
	if editMode {
		status = tr.T("Row %d of %d", t.row+1, rowCount) + "  ·  " + t.TableMeta(tr)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
		"",
		StatusBarStyle.Render(status),
	)
}

func (t *FlowTableModel) renderActionRow(i int, a model.Action, widths []int, padding int, editMode bool, current int) string {
	style := NormalRowStyle
	if i%2 == 1 {
		style = style.Background(ColorStripe)
	}
	highlighted := false
	switch {
	case editMode && i == t.row, !editMode && i == current:
		style = SelectedRowStyle
		highlighted = true
	case !editMode && i < current:
		style = PlayedRowStyle
	}

	parts := []string{style.Width(gutterWidth).Render(fmt.Sprintf("%4d", i+1))}
	for c, text := range a.Cells() {
		inner := widths[c] - 2*padding
		cs := style.Padding(0, padding)
		rendered := util.Truncate(text, inner)

		active := editMode && i == t.row && c == t.col
		switch {
		case active && t.editing:
			t.input.Width = max(inner-1, 1)
			rendered = t.input.View()
			cs = ActiveCellStyle.Padding(0, padding)
		case active:
			cs = ActiveCellStyle.Padding(0, padding)
		case !highlighted && text == model.MarkerOn:
			cs = cs.Foreground(MarkerOnStyle.GetForeground())
		case !highlighted && text == model.MarkerOff:
			cs = cs.Foreground(MarkerOffStyle.GetForeground())
		}
		parts = append(parts, cs.Width(widths[c]).MaxWidth(widths[c]).Render(rendered))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (t *FlowTableModel) renderEndMarker(width int, selected bool, tr *i18n.Translator) string {
	text := "    ― " + tr.T("END") + " ―"
	if selected {
		return SelectedRowStyle.Width(width - 2).Render(text)
	}
	return EndMarkerStyle.Render(text)
}

// renderTableRow renders header or row cells at fixed widths.
func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		inner := widths[i] - style.GetHorizontalPadding()
		parts = append(parts, style.Width(widths[i]).Render(util.Truncate(cell, inner)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
