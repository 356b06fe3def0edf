package ui

import (
	"path/filepath"
	"testing"
	"time"

	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryRows() []model.FlowRow {
	return []model.FlowRow{
		{ID: "a", Title: "Beta", Quest: "Lucilius", Author: "mika", RowCount: 12, UpdatedAt: testNow.Add(-time.Hour)},
		{ID: "b", Title: "alpha", Quest: "Beelzebub", Author: "ren", RowCount: 3, UpdatedAt: testNow},
		{ID: "c", Title: "Gamma", Quest: "Lucilius", Author: "ren", RowCount: 40, UpdatedAt: testNow.Add(-2 * time.Hour)},
	}
}

func titles(m *LibraryModel) []string {
	var out []string
	for _, r := range m.rows {
		out = append(out, r.Title)
	}
	return out
}

func TestLibrarySortAndFilter(t *testing.T) {
	m := NewLibraryModel(libraryRows())

	m.SortActiveColumn(false)
	assert.Equal(t, []string{"alpha", "Beta", "Gamma"}, titles(m))

	require.True(t, m.JumpToColumn(4))
	m.SortActiveColumn(true)
	assert.Equal(t, []string{"Gamma", "Beta", "alpha"}, titles(m), "row counts sort numerically")

	assert.False(t, m.FilterBySelectedValue(), "rows column is not filterable")

	m.PrevColumn()
	m.PrevColumn()
	require.True(t, m.FilterBySelectedValue())
	assert.Equal(t, []string{"Gamma", "Beta"}, titles(m))

	assert.True(t, m.ClearFilter())
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.ClearFilter())
}

func TestLibrarySetRowsKeepsSelection(t *testing.T) {
	m := NewLibraryModel(libraryRows())
	m.MoveDown()
	m.MoveDown()
	sel, _ := m.Selected()
	require.Equal(t, "c", sel.ID)

	rows := libraryRows()
	rows = append([]model.FlowRow{{ID: "d", Title: "Delta"}}, rows...)
	m.SetRows(rows)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", sel.ID)
}

func TestLibraryPrefsRoundTrip(t *testing.T) {
	m := NewLibraryModel(libraryRows())
	m.NextColumn()
	m.SortActiveColumn(true)

	path := filepath.Join(t.TempDir(), "prefs", "ui_prefs.json")
	require.NoError(t, saveUIPreferences(path, UIPreferences{Library: m.Prefs()}))

	loaded := loadUIPreferences(path)
	assert.Equal(t, TablePrefs{SortKey: "quest", SortDesc: true, ActiveColumn: "quest"}, loaded.Library)

	restored := NewLibraryModel(libraryRows())
	restored.ApplyPrefs(loaded.Library)
	assert.Equal(t, titles(m), titles(restored))

	restored.ApplyPrefs(TablePrefs{SortKey: "bogus", ActiveColumn: "bogus"})
	assert.Equal(t, "quest", restored.Prefs().SortKey, "unknown columns are ignored")
}

func TestLoadUIPreferencesMissingFile(t *testing.T) {
	assert.Equal(t, UIPreferences{}, loadUIPreferences(filepath.Join(t.TempDir(), "none.json")))
	assert.Equal(t, UIPreferences{}, loadUIPreferences(""))
}

func TestLibraryViewEmpty(t *testing.T) {
	tr := i18n.New(settings.LanguageEnglish)
	out := NewLibraryModel(nil).View(80, 20, tr, testNow)
	assert.Contains(t, out, "No saved flows yet.")
}

func TestFlowTableClickModes(t *testing.T) {
	tbl := NewFlowTableModel()

	assert.True(t, tbl.Click(2, settings.ClickSingle, testNow))

	assert.False(t, tbl.Click(2, settings.ClickDouble, testNow))
	assert.True(t, tbl.Click(2, settings.ClickDouble, testNow.Add(200*time.Millisecond)))

	assert.False(t, tbl.Click(1, settings.ClickDouble, testNow))
	assert.False(t, tbl.Click(2, settings.ClickDouble, testNow.Add(100*time.Millisecond)), "a different row restarts the pair")
	assert.False(t, tbl.Click(2, settings.ClickDouble, testNow.Add(time.Second)), "too slow")
}

func TestFlowTableRowAt(t *testing.T) {
	tbl := NewFlowTableModel()

	_, ok := tbl.RowAt(0, 3)
	assert.False(t, ok, "header line")

	row, ok := tbl.RowAt(1, 3)
	require.True(t, ok)
	assert.Equal(t, 0, row)

	row, ok = tbl.RowAt(4, 3)
	require.True(t, ok)
	assert.Equal(t, 3, row, "end marker")

	_, ok = tbl.RowAt(5, 3)
	assert.False(t, ok)
}

func TestFlowTableEditReportsChange(t *testing.T) {
	tbl := NewFlowTableModel()
	tbl.BeginEdit("50")
	_, changed := tbl.EndEdit()
	assert.False(t, changed)

	tbl.BeginEdit("50")
	tbl.UpdateInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("%")})
	value, changed := tbl.EndEdit()
	assert.True(t, changed)
	assert.Equal(t, "50%", value)
	assert.False(t, tbl.Editing())
}

func TestOrganizationFormRoundTrip(t *testing.T) {
	org := model.NewOrganization()
	org.Job.Name = "Berserker"
	org.Member.Front[0] = model.Slot{Name: "Narmaya", Note: "lv 150"}
	org.TotalEffects.HP = "30%"

	form := NewOrganizationFormModel(org)
	assert.Empty(t, cmp.Diff(org, form.Organization()))

	// job name, job note, equipment name
	form.inputs[2].SetValue("Ultima")
	want := org.Clone()
	want.Job.Equipment.Name = "Ultima"
	assert.Empty(t, cmp.Diff(want, form.Organization()))
	assert.Equal(t, "", org.Job.Equipment.Name, "the source is not modified")
}

func TestOrganizationFormSubmit(t *testing.T) {
	form := NewOrganizationFormModel(model.NewOrganization())
	next, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(model.OrganizationSubmittedMsg)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(next.Organization(), msg.Organization))

	_, cmd = form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, model.FormCancelledMsg{}, cmd())
}

func TestDetailsFormSubmitsValues(t *testing.T) {
	f := sampleFlow()
	f.Author = "mika"
	form := NewDetailsFormModel(f, i18n.New(settings.LanguageEnglish))

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg, ok := cmd().(model.DetailsSubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, "Grand Order HL", msg.Title)
	assert.Equal(t, "mika", msg.Author)
}

func TestSettingsModelCycles(t *testing.T) {
	store, err := settings.NewStore(nil, nil)
	require.NoError(t, err)
	view := NewSettingsModel(store)

	require.NoError(t, view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}))
	require.NoError(t, view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")}))
	assert.Equal(t, settings.AlignRight, store.Get().ButtonAlign)

	require.NoError(t, view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}))
	require.NoError(t, view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}))
	require.NoError(t, view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}))
	assert.Equal(t, settings.MaxTablePadding, store.Get().TablePadding, "padding wraps from 0 to the maximum")
}

func TestRenderHelpAlignsRight(t *testing.T) {
	tr := i18n.New(settings.LanguageEnglish)
	st := settings.Default()
	st.ButtonAlign = settings.AlignRight

	out := RenderHelp(helpContext{screen: model.ScreenFlow, editing: true}, DefaultKeyMap(), 200, st, tr)
	assert.Contains(t, out, "paste")
	assert.Contains(t, out, "undo")
}
