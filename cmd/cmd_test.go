package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"questflow/internal/config"
	"questflow/internal/db"
	"questflow/internal/model"
	"questflow/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEnv(t *testing.T) *cliEnv {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return &cliEnv{db: database, exportDir: t.TempDir(), logger: zap.NewNop()}
}

func writeFlow(t *testing.T, title string, rows int) string {
	t.Helper()
	f := model.NewFlow()
	f.Title = title
	f.Flow = make([]model.Action, rows)
	path := filepath.Join(t.TempDir(), model.Filename(f))
	require.NoError(t, model.WriteFile(path, f))
	return path
}

func TestImportAndLookup(t *testing.T) {
	env := newTestEnv(t)

	id, f, err := env.importFile(writeFlow(t, "つよバハ", 4), false)
	require.NoError(t, err)
	assert.Equal(t, "つよバハ", f.Title)

	byID, err := env.lookup(id)
	require.NoError(t, err)
	assert.Len(t, byID.Flow.Flow, 4)

	byTitle, err := env.lookup("つよバハ")
	require.NoError(t, err)
	assert.Equal(t, id, byTitle.ID)

	byPrefix, err := env.lookup(id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, byPrefix.ID)

	_, err = env.lookup("missing")
	assert.ErrorIs(t, err, db.ErrFlowNotFound)
}

func TestImportReplace(t *testing.T) {
	env := newTestEnv(t)

	first, _, err := env.importFile(writeFlow(t, "Lucilius", 2), false)
	require.NoError(t, err)

	second, _, err := env.importFile(writeFlow(t, "Lucilius", 5), true)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rows, err := db.ListFlows(env.db, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].RowCount)

	third, _, err := env.importFile(writeFlow(t, "Lucilius", 1), false)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestImportInvalidFile(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.importFile(filepath.Join(t.TempDir(), "nope.json"), false)
	assert.Error(t, err)
}

func TestLookupAmbiguousPrefix(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 20; i++ {
		_, _, err := env.importFile(writeFlow(t, "flow", 1), false)
		require.NoError(t, err)
	}
	// 20 random IDs cannot all have distinct first hex digits
	var ambiguous bool
	for _, c := range "0123456789abcdef" {
		_, err := env.lookup(string(c))
		if err != nil && strings.Contains(err.Error(), errAmbiguousFlow.Error()) {
			ambiguous = true
			break
		}
	}
	assert.True(t, ambiguous)
}

func TestMapPastedText(t *testing.T) {
	rows, err := mapPastedText(strings.NewReader("予兆A\t〇\n予兆B\t✖\n"), model.FieldPrediction)
	require.NoError(t, err)
	want := []map[string]string{
		{model.FieldPrediction: "予兆A", model.FieldCharge: "〇"},
		{model.FieldPrediction: "予兆B", model.FieldCharge: "✖"},
	}
	assert.Empty(t, cmp.Diff(want, rows))

	_, err = mapPastedText(strings.NewReader("x"), "bogus")
	assert.Error(t, err)

	_, err = mapPastedText(strings.NewReader("\n\n"), model.FieldHP)
	assert.Error(t, err)
}

func TestNewFlowStamp(t *testing.T) {
	f := newFlow("t", "q", "a", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC))
	assert.Equal(t, "2024/01/02 03:04", f.UpdateDate)
	assert.Equal(t, "q", f.Quest)
	assert.Len(t, f.Flow, 1)
}

func TestRenderFlowList(t *testing.T) {
	out := renderFlowList([]model.FlowRow{{ID: "0123456789", Title: "Beta", RowCount: 12}})
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "12")
}

func TestOnboardingFlow(t *testing.T) {
	m := newOnboardingModel(settings.Default(), "")
	step := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(onboardingModel)
	}

	step(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stepRemote, m.step)
	assert.Equal(t, settings.LanguageEnglish, m.result.Language)

	step(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("https://flows.example")})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, "https://flows.example", m.result.RemoteBaseURL)
	assert.Contains(t, m.View(), "Setup Complete")
}

func TestApplyOnboarding(t *testing.T) {
	store, err := settings.NewStore(nil, nil)
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := config.DefaultConfig(dir)

	res := onboardingResult{Language: settings.LanguageEnglish, RemoteBaseURL: "https://flows.example"}
	require.NoError(t, applyOnboarding(res, false, store, cfg, path))
	assert.Equal(t, settings.LanguageEnglish, store.Get().Language)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://flows.example", saved.Remote.BaseURL)
}

func TestApplyOnboardingCancelled(t *testing.T) {
	store, err := settings.NewStore(nil, nil)
	require.NoError(t, err)
	dir := t.TempDir()
	cfg := config.DefaultConfig(dir)

	res := onboardingResult{Language: settings.LanguageEnglish, RemoteBaseURL: "https://flows.example"}
	require.NoError(t, applyOnboarding(res, true, store, cfg, filepath.Join(dir, "config.yaml")))
	assert.Equal(t, settings.LanguageJapanese, store.Get().Language)
	assert.Empty(t, cfg.Remote.BaseURL)
}
