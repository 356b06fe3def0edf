package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"questflow/internal/settings"
)

const settingsKey = "editor"

// SettingsStore persists editor settings in the settings table.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore returns a settings persister backed by db.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// LoadSettings implements settings.Persister.
func (s *SettingsStore) LoadSettings() (settings.Settings, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	var out settings.Settings
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out, true, nil
}

// SaveSettings implements settings.Persister.
func (s *SettingsStore) SaveSettings(v settings.Settings) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingsKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
