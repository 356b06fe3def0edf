// Package settings owns the editor's user preferences.
package settings

import (
	"fmt"

	"go.uber.org/zap"
)

// Language codes supported by the UI.
const (
	LanguageJapanese = "ja"
	LanguageEnglish  = "en"
)

// Button alignments for the footer key hints.
const (
	AlignLeft  = "left"
	AlignRight = "right"
)

// Row activation modes for mouse clicks.
const (
	ClickSingle = "single"
	ClickDouble = "double"
)

// MaxTablePadding is the widest cell padding allowed.
const MaxTablePadding = 3

// Settings are the user's editor preferences.
type Settings struct {
	Language     string `json:"language"`
	ButtonAlign  string `json:"button_align"`
	TablePadding int    `json:"table_padding"`
	ClickMode    string `json:"click_mode"`
}

// Default returns the settings used before anything is persisted.
func Default() Settings {
	return Settings{
		Language:     LanguageJapanese,
		ButtonAlign:  AlignLeft,
		TablePadding: 1,
		ClickMode:    ClickSingle,
	}
}

// Normalize snaps every field onto its enumeration.
func (s Settings) Normalize() Settings {
	d := Default()
	if s.Language != LanguageJapanese && s.Language != LanguageEnglish {
		s.Language = d.Language
	}
	if s.ButtonAlign != AlignLeft && s.ButtonAlign != AlignRight {
		s.ButtonAlign = d.ButtonAlign
	}
	if s.ClickMode != ClickSingle && s.ClickMode != ClickDouble {
		s.ClickMode = d.ClickMode
	}
	s.TablePadding = min(max(s.TablePadding, 0), MaxTablePadding)
	return s
}

// Persister loads and saves settings. found is false when nothing is stored.
type Persister interface {
	LoadSettings() (s Settings, found bool, err error)
	SaveSettings(s Settings) error
}

// Store holds the current settings. Update is the only way to change them.
type Store struct {
	current   Settings
	persister Persister
	persisted bool
	logger    *zap.Logger
	listeners []func(Settings)
}

// NewStore loads persisted settings, falling back to defaults.
func NewStore(p Persister, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{current: Default(), persister: p, logger: logger}
	if p == nil {
		return s, nil
	}
	loaded, found, err := p.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if found {
		s.current = loaded.Normalize()
		s.persisted = true
	}
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	return s.current
}

// Persisted reports whether settings have been stored at least once.
func (s *Store) Persisted() bool {
	return s.persisted
}

// Subscribe registers fn to run after every successful Update.
func (s *Store) Subscribe(fn func(Settings)) {
	s.listeners = append(s.listeners, fn)
}

// Update applies fn to a copy of the settings, normalizes and persists it.
// On a persistence error the in-memory value is left unchanged.
func (s *Store) Update(fn func(*Settings)) error {
	next := s.current
	fn(&next)
	next = next.Normalize()
	if next == s.current && (s.persisted || s.persister == nil) {
		return nil
	}
	if s.persister != nil {
		if err := s.persister.SaveSettings(next); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		s.persisted = true
	}
	s.current = next
	s.logger.Debug("settings updated",
		zap.String("language", next.Language),
		zap.String("button_align", next.ButtonAlign),
		zap.Int("table_padding", next.TablePadding),
		zap.String("click_mode", next.ClickMode),
	)
	for _, l := range s.listeners {
		l(next)
	}
	return nil
}
