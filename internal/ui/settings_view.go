package ui

import (
	"fmt"

	"questflow/internal/i18n"
	"questflow/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsRow int

const (
	settingsLanguage settingsRow = iota
	settingsButtonAlign
	settingsPadding
	settingsClickMode
	settingsRowCount
)

// SettingsModel is the preferences screen. Every change is applied to the
// store immediately.
type SettingsModel struct {
	store  *settings.Store
	cursor settingsRow
}

// NewSettingsModel creates a settings screen over store.
func NewSettingsModel(store *settings.Store) *SettingsModel {
	return &SettingsModel{store: store}
}

// Update handles a key and returns an error if the change could not be saved.
func (m *SettingsModel) Update(msg tea.KeyMsg) error {
	switch msg.String() {
	case "j", "down", "tab":
		m.cursor = (m.cursor + 1) % settingsRowCount
	case "k", "up", "shift+tab":
		m.cursor = (m.cursor + settingsRowCount - 1) % settingsRowCount
	case "l", "right", "enter", " ":
		return m.cycle(1)
	case "h", "left":
		return m.cycle(-1)
	}
	return nil
}

func (m *SettingsModel) cycle(dir int) error {
	return m.store.Update(func(s *settings.Settings) {
		switch m.cursor {
		case settingsLanguage:
			s.Language = toggle(s.Language, settings.LanguageJapanese, settings.LanguageEnglish)
		case settingsButtonAlign:
			s.ButtonAlign = toggle(s.ButtonAlign, settings.AlignLeft, settings.AlignRight)
		case settingsPadding:
			n := settings.MaxTablePadding + 1
			s.TablePadding = (s.TablePadding + dir + n) % n
		case settingsClickMode:
			s.ClickMode = toggle(s.ClickMode, settings.ClickSingle, settings.ClickDouble)
		}
	})
}

func toggle(v, a, b string) string {
	if v == a {
		return b
	}
	return a
}

// View renders the settings screen.
func (m *SettingsModel) View(width, height int, tr *i18n.Translator) string {
	s := m.store.Get()

	rows := []struct {
		label   string
		options []string
		current string
	}{
		{tr.T("Language"), []string{"日本語", "English"}, languageName(s.Language)},
		{tr.T("Button alignment"), []string{tr.T("left"), tr.T("right")}, tr.T(s.ButtonAlign)},
		{tr.T("Table padding"), []string{"0", "1", "2", "3"}, fmt.Sprint(s.TablePadding)},
		{tr.T("Row activation"), []string{tr.T("single click"), tr.T("double click")}, tr.T(s.ClickMode + " click")},
	}

	var lines []string
	for i, row := range rows {
		label := LabelStyle.Render(row.label)
		if settingsRow(i) == m.cursor {
			label = OptionSelectedStyle.Render("→ " + row.label)
		} else {
			label = "  " + label
		}

		var opts []string
		for _, opt := range row.options {
			if opt == row.current {
				opts = append(opts, OptionSelectedStyle.Render("["+opt+"]"))
			} else {
				opts = append(opts, OptionStyle.Render(" "+opt+" "))
			}
		}
		lines = append(lines, label, "    "+lipgloss.JoinHorizontal(lipgloss.Left, opts...), "")
	}
	lines = append(lines, HelpDescStyle.Render(tr.T("Changes are saved immediately.")))

	card := PanelStyle.Width(min(72, width-4)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func languageName(code string) string {
	if code == settings.LanguageEnglish {
		return "English"
	}
	return "日本語"
}
