package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memPersister struct {
	stored  *Settings
	saveErr error
	saves   int
}

func (m *memPersister) LoadSettings() (Settings, bool, error) {
	if m.stored == nil {
		return Settings{}, false, nil
	}
	return *m.stored, true, nil
}

func (m *memPersister) SaveSettings(s Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = &s
	return nil
}

func TestNewStoreDefaults(t *testing.T) {
	s, err := NewStore(&memPersister{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Default(), s.Get())
}

func TestNewStoreNormalizesLoaded(t *testing.T) {
	p := &memPersister{stored: &Settings{Language: "fr", ButtonAlign: AlignRight, TablePadding: 9, ClickMode: "triple"}}
	s, err := NewStore(p, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Settings{Language: LanguageJapanese, ButtonAlign: AlignRight, TablePadding: MaxTablePadding, ClickMode: ClickSingle}, s.Get())
}

func TestUpdatePersistsAndNotifies(t *testing.T) {
	p := &memPersister{}
	s, err := NewStore(p, zap.NewNop())
	require.NoError(t, err)

	var seen []Settings
	s.Subscribe(func(v Settings) { seen = append(seen, v) })

	require.NoError(t, s.Update(func(v *Settings) { v.Language = LanguageEnglish }))
	assert.Equal(t, LanguageEnglish, s.Get().Language)
	assert.Equal(t, LanguageEnglish, p.stored.Language)
	require.Len(t, seen, 1)

	// no change, no save
	require.NoError(t, s.Update(func(v *Settings) { v.Language = LanguageEnglish }))
	assert.Equal(t, 1, p.saves)
	assert.Len(t, seen, 1)
}

func TestUpdateKeepsOldValueOnSaveError(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s, err := NewStore(p, zap.NewNop())
	require.NoError(t, err)

	err = s.Update(func(v *Settings) { v.ClickMode = ClickDouble })
	require.Error(t, err)
	assert.Equal(t, ClickSingle, s.Get().ClickMode)
}

func TestGetReturnsCopy(t *testing.T) {
	s, err := NewStore(nil, zap.NewNop())
	require.NoError(t, err)
	got := s.Get()
	got.Language = LanguageEnglish
	assert.Equal(t, LanguageJapanese, s.Get().Language)
}

func TestUpdateSavesDefaultsOnFirstRun(t *testing.T) {
	p := &memPersister{}
	s, err := NewStore(p, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, s.Persisted())

	// unchanged values are still written once
	require.NoError(t, s.Update(func(v *Settings) { v.Language = LanguageJapanese }))
	assert.True(t, s.Persisted())
	assert.Equal(t, 1, p.saves)

	reopened, err := NewStore(p, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, reopened.Persisted())
}
