package ui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"questflow/internal/db"
	"questflow/internal/editor"
	"questflow/internal/model"
	"questflow/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) Model {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store, err := settings.NewStore(db.NewSettingsStore(database), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Update(func(s *settings.Settings) { s.Language = settings.LanguageEnglish }))

	m := New(Deps{
		DB:        database,
		Session:   editor.New(zap.NewNop()),
		Settings:  store,
		ExportDir: t.TempDir(),
		PrefsPath: filepath.Join(t.TempDir(), "ui_prefs.json"),
	})
	m.now = func() time.Time { return testNow }
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func sampleFlow() model.Flow {
	f := model.NewFlow()
	f.Title = "Grand Order HL"
	f.Flow = []model.Action{
		{HP: "100", Prediction: "Overdrive", Action: "Open"},
		{HP: "75", Prediction: "Trigger", Charge: model.MarkerOn},
		{HP: "50", Action: "Burst"},
	}
	return f
}

func loadSample(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t)
	m = update(t, m, model.FlowLoadedMsg{Flow: sampleFlow(), LibraryID: "lib-1"})
	require.Equal(t, model.ScreenFlow, m.screen)
	require.False(t, m.session.Editing())
	return m
}

func TestViewModeMovesPlayback(t *testing.T) {
	m := loadSample(t)

	m = press(t, m, "j", "j")
	assert.Equal(t, 2, m.session.CurrentRow())

	m = press(t, m, "G")
	assert.Equal(t, 3, m.session.CurrentRow(), "G lands on the end marker")

	m = press(t, m, "j")
	assert.Equal(t, 3, m.session.CurrentRow(), "no move past the end")

	m = press(t, m, "g", "g")
	assert.Equal(t, 0, m.session.CurrentRow())

	m = press(t, m, "k")
	assert.Equal(t, 0, m.session.CurrentRow())
	assert.Empty(t, m.error)
}

func TestEditModeToggle(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "j", "e")
	require.True(t, m.session.Editing())
	assert.Equal(t, 1, m.table.Row(), "edit focus starts on the playback row")
	assert.Equal(t, "Edit mode", m.info)

	m = press(t, m, "esc")
	assert.False(t, m.session.Editing())
	assert.Equal(t, 0, m.session.CurrentRow())
	assert.Equal(t, model.ScreenFlow, m.screen)
}

func TestCellEditUndoRedo(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "l", "enter")
	require.True(t, m.table.Editing())
	assert.Equal(t, model.FieldPrediction, m.table.Field())

	m = press(t, m, "!", "enter")
	require.False(t, m.table.Editing())
	a, _ := m.session.Action(0)
	assert.Equal(t, "Overdrive!", a.Prediction)
	assert.True(t, m.session.Dirty())

	m = press(t, m, "u")
	a, _ = m.session.Action(0)
	assert.Equal(t, "Overdrive", a.Prediction)
	assert.Equal(t, "Undid edit", m.info)

	m = press(t, m, "ctrl+r")
	a, _ = m.session.Action(0)
	assert.Equal(t, "Overdrive!", a.Prediction)

	m = press(t, m, "ctrl+r")
	assert.Equal(t, "Nothing to redo", m.info)
}

func TestUnchangedCellAddsNoUndoStep(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "enter", "enter")
	assert.False(t, m.session.Dirty())

	m = press(t, m, "u")
	assert.Equal(t, "Nothing to undo", m.info)
}

func TestCellEditTabMovesToNextColumn(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "enter", "0", "tab")

	require.True(t, m.table.Editing(), "tab keeps the editor open on the next cell")
	assert.Equal(t, model.FieldPrediction, m.table.Field())
	a, _ := m.session.Action(0)
	assert.Equal(t, "1000", a.HP)

	m = press(t, m, "esc")
	assert.False(t, m.table.Editing())
	assert.True(t, m.session.Editing(), "esc closes the cell editor only")
}

func TestClipboardPasteAppendsRows(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "G")
	require.Equal(t, 2, m.table.Row())

	m = update(t, m, model.ClipboardMsg{Text: "50\tEnrage\t〇\n25\tFinal\t✖\n"})
	assert.Empty(t, m.error)
	assert.Equal(t, "Pasted 2 rows", m.info)
	require.Equal(t, 4, m.session.RowCount())

	last, _ := m.session.Action(3)
	assert.Equal(t, model.Action{HP: "25", Prediction: "Final", Charge: model.MarkerOff}, last)
	merged, _ := m.session.Action(2)
	assert.Equal(t, "Burst", merged.Action, "cells outside the block keep their value")
}

func TestClipboardPasteRejectsWideBlock(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e")
	m = update(t, m, model.ClipboardMsg{Text: "1\t2\t3\t4\t5\t6\t7"})
	assert.Equal(t, "The pasted data has more columns than the table.", m.error)
	assert.Equal(t, 3, m.session.RowCount())
}

func TestClipboardPasteIgnoredInViewMode(t *testing.T) {
	m := loadSample(t)
	m = update(t, m, model.ClipboardMsg{Text: "1\t2"})
	a, _ := m.session.Action(0)
	assert.Equal(t, "100", a.HP)
}

func TestReadClipboardError(t *testing.T) {
	orig := readClipboard
	readClipboard = func() (string, error) { return "", errors.New("no xclip") }
	t.Cleanup(func() { readClipboard = orig })

	msg := readClipboardCmd()()
	errMsg, ok := msg.(model.ErrorMsg)
	require.True(t, ok)

	m := newTestModel(t)
	m = update(t, m, errMsg)
	assert.Equal(t, "Clipboard unavailable: no xclip", m.error)
}

func TestCopyRowWritesTSV(t *testing.T) {
	var written string
	orig := writeClipboard
	writeClipboard = func(s string) error { written = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	msg := copyRowCmd(model.Action{HP: "75", Prediction: "Trigger", Charge: model.MarkerOn}, "copied")()
	assert.Equal(t, model.InfoMsg{Text: "copied"}, msg)
	assert.Equal(t, "75\tTrigger\t〇\t\t\t", written)
}

func TestCopiedRowPastesBackUnchanged(t *testing.T) {
	var written string
	orig := writeClipboard
	writeClipboard = func(s string) error { written = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	copied := model.Action{HP: "75", Prediction: `says "Burst"`, Charge: model.MarkerOn, Note: "line1\nline2\tend"}
	_ = copyRowCmd(copied, "copied")()

	m := loadSample(t)
	m = press(t, m, "e", "G")
	m = update(t, m, model.ClipboardMsg{Text: written})
	require.Empty(t, m.error)

	got, _ := m.session.Action(2)
	assert.Equal(t, copied, got)
	assert.Equal(t, 3, m.session.RowCount())
}

func TestUndoInsertKeepsFocusOnExistingRow(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "G", "o")
	require.Equal(t, 4, m.session.RowCount())
	require.Equal(t, 3, m.table.Row())

	m = press(t, m, "u")
	require.Equal(t, 3, m.session.RowCount())
	assert.Equal(t, 2, m.table.Row())

	m = press(t, m, "enter", "%", "enter")
	assert.Empty(t, m.error)
	a, _ := m.session.Action(2)
	assert.Equal(t, "50%", a.HP)

	m = press(t, m, "u", "ctrl+r")
	assert.Equal(t, "Redid edit", m.info)
	assert.Less(t, m.table.Row(), m.session.RowCount())
}

func TestToggleMarker(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", " ")
	assert.Equal(t, "Only charge and guard cells hold markers", m.info)
	assert.False(t, m.session.Dirty())

	m = press(t, m, "/", "3", " ")
	a, _ := m.session.Action(0)
	assert.Equal(t, model.MarkerOn, a.Charge)

	m = press(t, m, " ", " ")
	a, _ = m.session.Action(0)
	assert.Equal(t, "", a.Charge)
}

func TestRowOperations(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e", "o")
	require.Equal(t, 4, m.session.RowCount())
	assert.Equal(t, 1, m.table.Row())

	m = press(t, m, "x")
	require.Equal(t, 3, m.session.RowCount())

	m = press(t, m, "g", "g", "D")
	require.Equal(t, 4, m.session.RowCount())
	dup, _ := m.session.Action(1)
	assert.Equal(t, "Open", dup.Action)

	m = press(t, m, "G", "K")
	moved, _ := m.session.Action(2)
	assert.Equal(t, "Burst", moved.Action)
	assert.Equal(t, 2, m.table.Row())
}

func TestDetailsFormSubmit(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "t")
	require.Equal(t, model.ScreenDetailsForm, m.screen)
	require.True(t, m.session.Editing(), "opening a form enters edit mode")

	m = update(t, m, model.DetailsSubmittedMsg{Title: "New title", Quest: "Q", Author: "me"})
	assert.Equal(t, model.ScreenFlow, m.screen)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Equal(t, "New title", m.session.Flow().Title)

	m = press(t, m, "u")
	assert.Equal(t, "Grand Order HL", m.session.Flow().Title)
}

func TestFormCancelKeepsFlow(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "r")
	require.Equal(t, model.ScreenOrganizationForm, m.screen)
	m = update(t, m, model.FormCancelledMsg{})
	assert.Equal(t, model.ScreenFlow, m.screen)
	assert.Nil(t, m.orgForm)
	assert.False(t, m.session.Dirty())
}

func TestSaveFlowCmdWritesLibrary(t *testing.T) {
	m := loadSample(t)
	m = press(t, m, "e")

	msg := saveFlowCmd(m.db, m.session.Stamp(testNow), editor.Source{})()
	saved, ok := msg.(model.FlowSavedMsg)
	require.True(t, ok, "got %#v", msg)
	require.NotEmpty(t, saved.LibraryID)

	stored, err := db.GetFlow(m.db, saved.LibraryID)
	require.NoError(t, err)
	assert.Equal(t, "Grand Order HL", stored.Flow.Title)
	assert.Equal(t, "2024/05/01 12:00", stored.Flow.UpdateDate)

	m = update(t, m, saved)
	assert.Equal(t, saved.LibraryID, m.session.Source().LibraryID)
	assert.False(t, m.session.Dirty())
}

func TestExportFlowCmd(t *testing.T) {
	dir := t.TempDir()
	msg := exportFlowCmd(dir, sampleFlow())()
	exported, ok := msg.(model.FlowExportedMsg)
	require.True(t, ok, "got %#v", msg)
	assert.Equal(t, filepath.Join(dir, "Grand Order HL.json"), exported.Path)

	f, err := model.ReadFile(exported.Path)
	require.NoError(t, err)
	assert.Len(t, f.Flow, 3)
}

func TestLanguageSwitchRetranslates(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, ",")
	require.Equal(t, model.ScreenSettings, m.screen)

	m = press(t, m, "enter")
	assert.Equal(t, settings.LanguageJapanese, m.settings.Get().Language)
	assert.Equal(t, settings.LanguageJapanese, m.tr.Lang())
	assert.Contains(t, m.View(), "言語")

	m = press(t, m, "esc")
	assert.Equal(t, model.ScreenLibrary, m.screen)
}

func TestNewFlowStartsEditing(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "ctrl+n")
	assert.Equal(t, model.ScreenFlow, m.screen)
	assert.True(t, m.session.Editing())
	assert.Equal(t, 1, m.session.RowCount())
}

func TestRemoteDisabled(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "R")
	assert.False(t, m.remotePrompt)
	assert.Equal(t, "Remote loading is not configured (set remote.base_url).", m.error)
}

func TestMouseClickSelectsRow(t *testing.T) {
	m := loadSample(t)
	// banner line for the "Loaded" info, two header lines, table header line
	y := 2 + len(m.banners()) + 1 + 2
	m = update(t, m, tea.MouseMsg{X: 10, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, 2, m.session.CurrentRow())
}

func TestViewRenders(t *testing.T) {
	m := loadSample(t)
	out := m.View()
	assert.Contains(t, out, "Grand Order HL")
	assert.Contains(t, out, "VIEW")
	assert.Contains(t, out, "END")

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "Cell editor")
}
