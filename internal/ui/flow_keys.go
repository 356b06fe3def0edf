package ui

import (
	"questflow/internal/model"
	"questflow/internal/paste"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// System clipboard access, replaced in tests.
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

type clipboardError struct {
	err error
}

func (e *clipboardError) Error() string { return "clipboard: " + e.err.Error() }
func (e *clipboardError) Unwrap() error { return e.err }

func (m Model) handleFlowNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.table.Editing() {
		return m.handleCellEdit(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NewFlow):
		return m.newFlow()
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()
	case key.Matches(msg, m.keys.Export):
		return m, exportFlowCmd(m.exportDir, m.session.Flow())
	case key.Matches(msg, m.keys.Details):
		return m.openDetailsForm()
	case key.Matches(msg, m.keys.Organization):
		return m.openOrganizationForm()
	}

	if m.session.Editing() {
		return m.handleEditNav(msg)
	}
	return m.handlePlaybackNav(msg)
}

// handlePlaybackNav moves the playback cursor in view mode.
func (m Model) handlePlaybackNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		return m.setCurrentRow(m.session.CurrentRow() + 1)
	case key.Matches(msg, m.keys.Up):
		return m.setCurrentRow(m.session.CurrentRow() - 1)
	case key.Matches(msg, m.keys.Bottom):
		return m.setCurrentRow(m.session.RowCount())
	case key.Matches(msg, m.keys.EditMode):
		m.session.EnterEditMode()
		m.table.SetRow(m.session.CurrentRow(), m.session.RowCount())
		m.info = m.tr.T("Edit mode")
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenLibrary
		return m, loadFlowsCmd(m.db)
	}
	return m, nil
}

// setCurrentRow moves playback, ignoring moves past either end.
func (m Model) setCurrentRow(row int) (tea.Model, tea.Cmd) {
	if row < 0 || row > m.session.RowCount() {
		return m, nil
	}
	if err := m.session.SetCurrentRow(row); err != nil {
		m.error = m.translateError(err)
	}
	return m, nil
}

func (m Model) handleEditNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rowCount := m.session.RowCount()
	row := m.table.Row()

	switch {
	case key.Matches(msg, m.keys.ExitEdit):
		m.session.ExitEditMode()
		m.table.CancelEdit()
		m.info = m.tr.T("View mode")
		return m, nil
	case key.Matches(msg, m.keys.Save):
		f := m.session.Stamp(m.now())
		return m, saveFlowCmd(m.db, f, m.session.Source())
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(rowCount)
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(rowCount)
	case key.Matches(msg, m.keys.Bottom):
		m.table.SetRow(rowCount-1, rowCount)
	case key.Matches(msg, m.keys.Right):
		m.table.NextColumn()
	case key.Matches(msg, m.keys.Left):
		m.table.PrevColumn()
	case key.Matches(msg, m.keys.ColumnJump):
		m.columnJump = true
	case key.Matches(msg, m.keys.EditCell):
		if rowCount == 0 {
			if err := m.session.InsertRow(0); err != nil {
				m.error = m.translateError(err)
				return m, nil
			}
		}
		return m, m.table.BeginEdit(m.cellValue())
	case key.Matches(msg, m.keys.InsertBelow):
		at := min(row+1, rowCount)
		return m.editRows(m.session.InsertRow(at), at)
	case key.Matches(msg, m.keys.InsertAbove):
		return m.editRows(m.session.InsertRow(row), row)
	case key.Matches(msg, m.keys.DeleteRow):
		return m.editRows(m.session.DeleteRow(row), row)
	case key.Matches(msg, m.keys.Duplicate):
		return m.editRows(m.session.DuplicateRow(row), row+1)
	case key.Matches(msg, m.keys.MoveRowDown):
		if row+1 < rowCount {
			return m.editRows(m.session.MoveRow(row, 1), row+1)
		}
	case key.Matches(msg, m.keys.MoveRowUp):
		if row > 0 {
			return m.editRows(m.session.MoveRow(row, -1), row-1)
		}
	case key.Matches(msg, m.keys.ToggleMarker):
		if !model.IsMarkerField(m.table.Field()) {
			m.info = m.tr.T("Only charge and guard cells hold markers")
			return m, nil
		}
		return m.editRows(m.session.ToggleMarker(row, m.table.Field()), row)
	case key.Matches(msg, m.keys.Paste):
		return m, readClipboardCmd()
	case key.Matches(msg, m.keys.CopyRow):
		action, ok := m.session.Action(row)
		if !ok {
			return m, nil
		}
		return m, copyRowCmd(action, m.tr.T("Copied row %d", row+1))
	case key.Matches(msg, m.keys.Undo):
		if !m.session.Undo() {
			m.info = m.tr.T("Nothing to undo")
			return m, nil
		}
		m.table.SetRow(row, m.session.RowCount())
		m.info = m.tr.T("Undid edit")
	case key.Matches(msg, m.keys.Redo):
		if !m.session.Redo() {
			m.info = m.tr.T("Nothing to redo")
			return m, nil
		}
		m.table.SetRow(row, m.session.RowCount())
		m.info = m.tr.T("Redid edit")
	}
	return m, nil
}

// editRows reports a row operation's error or moves focus to row.
func (m Model) editRows(err error, row int) (tea.Model, tea.Cmd) {
	if err != nil {
		m.error = m.translateError(err)
		return m, nil
	}
	m.error = ""
	m.table.SetRow(row, m.session.RowCount())
	return m, nil
}

func (m Model) cellValue() string {
	action, ok := m.session.Action(m.table.Row())
	if !ok {
		return ""
	}
	v, _ := action.Get(m.table.Field())
	return v
}

func (m Model) handleCellEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.cellKeys.Cancel):
		m.table.CancelEdit()
		return m, nil
	case key.Matches(msg, m.cellKeys.Commit):
		m.commitCell()
		return m, nil
	case key.Matches(msg, m.cellKeys.Next):
		if !m.commitCell() {
			return m, nil
		}
		m.table.NextColumn()
		return m, m.table.BeginEdit(m.cellValue())
	case key.Matches(msg, m.cellKeys.Prev):
		if !m.commitCell() {
			return m, nil
		}
		m.table.PrevColumn()
		return m, m.table.BeginEdit(m.cellValue())
	}
	return m, m.table.UpdateInput(msg)
}

// commitCell writes the cell editor's value. Unchanged values do not create
// an undo step.
func (m *Model) commitCell() bool {
	value, changed := m.table.EndEdit()
	if !changed {
		return true
	}
	if err := m.session.SetCell(m.table.Row(), m.table.Field(), value); err != nil {
		m.error = m.translateError(err)
		return false
	}
	m.error = ""
	return true
}

func (m Model) applyPaste(text string) (tea.Model, tea.Cmd) {
	if m.screen != model.ScreenFlow || !m.session.Editing() {
		return m, nil
	}
	n, err := m.session.Paste(m.table.Row(), m.table.Field(), text)
	if err != nil {
		m.error = m.translateError(err)
		m.logger.Debug("paste rejected", zap.Error(err))
		return m, nil
	}
	m.error = ""
	m.info = m.tr.T("Pasted %d rows", n)
	return m, nil
}

func (m Model) openDetailsForm() (tea.Model, tea.Cmd) {
	m.session.EnterEditMode()
	m.detailsForm = NewDetailsFormModel(m.session.Flow(), m.tr)
	m.mode = model.ModeInsert
	m.screen = model.ScreenDetailsForm
	return m, nil
}

func (m Model) openOrganizationForm() (tea.Model, tea.Cmd) {
	m.session.EnterEditMode()
	m.orgForm = NewOrganizationFormModel(m.session.Flow().Organization)
	m.mode = model.ModeInsert
	m.screen = model.ScreenOrganizationForm
	return m, nil
}

func readClipboardCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboard()
		if err != nil {
			return model.ErrorMsg{Err: &clipboardError{err: err}}
		}
		return model.ClipboardMsg{Text: text}
	}
}

func copyRowCmd(a model.Action, done string) tea.Cmd {
	text := paste.FormatTSV([][]string{a.Cells()})
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return model.ErrorMsg{Err: &clipboardError{err: err}}
		}
		return model.InfoMsg{Text: done}
	}
}
