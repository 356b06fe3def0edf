package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"questflow/internal/model"
	"questflow/internal/settings"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSaveAndGetFlow(t *testing.T) {
	database := openTestDB(t)

	f := model.NewFlow()
	f.Title = "つよバハ"
	f.Quest = "つよバハHL"
	f.Flow = append(f.Flow, model.Action{HP: "50", Action: "奥義"})

	id, err := SaveFlow(database, "", f)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := GetFlow(database, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Empty(t, cmp.Diff(f, got.Flow))
	assert.False(t, got.UpdatedAt.IsZero())

	byTitle, err := GetFlowByTitle(database, "つよバハ")
	require.NoError(t, err)
	assert.Equal(t, id, byTitle.ID)
}

func TestSaveFlowUpdatesInPlace(t *testing.T) {
	database := openTestDB(t)

	f := model.NewFlow()
	f.Title = "before"
	id, err := SaveFlow(database, "", f)
	require.NoError(t, err)

	f.Title = "after"
	again, err := SaveFlow(database, id, f)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	rows, err := ListFlows(database, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "after", rows[0].Title)
	assert.Equal(t, 1, rows[0].RowCount)
}

func TestListFlowsFilter(t *testing.T) {
	database := openTestDB(t)
	for _, title := range []string{"ルシHL", "つよバハ", "アルバハHL"} {
		f := model.NewFlow()
		f.Title = title
		_, err := SaveFlow(database, "", f)
		require.NoError(t, err)
	}

	rows, err := ListFlows(database, "HL")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDeleteFlow(t *testing.T) {
	database := openTestDB(t)
	id, err := SaveFlow(database, "", model.NewFlow())
	require.NoError(t, err)

	require.NoError(t, DeleteFlow(database, id))
	_, err = GetFlow(database, id)
	assert.ErrorIs(t, err, ErrFlowNotFound)
	assert.ErrorIs(t, DeleteFlow(database, id), ErrFlowNotFound)
}

func TestSettingsStore(t *testing.T) {
	database := openTestDB(t)
	store := NewSettingsStore(database)

	_, found, err := store.LoadSettings()
	require.NoError(t, err)
	assert.False(t, found)

	want := settings.Settings{Language: "en", ButtonAlign: "right", TablePadding: 2, ClickMode: "double"}
	require.NoError(t, store.SaveSettings(want))
	require.NoError(t, store.SaveSettings(want))

	got, found, err := store.LoadSettings()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}
