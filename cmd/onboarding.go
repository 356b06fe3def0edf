package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"questflow/internal/config"
	"questflow/internal/settings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// shouldRunOnboarding reports whether this is a first run on a terminal.
func shouldRunOnboarding(store *settings.Store) bool {
	if store.Persisted() {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepLanguage onboardingStep = iota
	stepRemote
	stepDone
)

// onboardingResult is what the setup screen collected.
type onboardingResult struct {
	Language      string
	RemoteBaseURL string
}

type onboardingModel struct {
	step      onboardingStep
	english   bool
	urlInput  textinput.Model
	result    onboardingResult
	status    string
	cancelled bool
	width     int
	height    int
}

var (
	obColorMuted  = lipgloss.Color("#7A8199")
	obColorText   = lipgloss.Color("#DCE0EC")
	obColorAccent = lipgloss.Color("#8CA6DB")
	obColorDanger = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(current settings.Settings, remoteURL string) onboardingModel {
	in := textinput.New()
	in.Placeholder = "https://example.com/questflow"
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.SetValue(remoteURL)
	in.Focus()

	return onboardingModel{
		step:     stepLanguage,
		english:  current.Language == settings.LanguageEnglish,
		urlInput: in,
		result: onboardingResult{
			Language:      current.Language,
			RemoteBaseURL: strings.TrimSpace(remoteURL),
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepLanguage:
			switch msg.String() {
			case "up", "k", "left", "h":
				m.english = false
				return m, nil
			case "down", "j", "right", "l":
				m.english = true
				return m, nil
			case "enter":
				m.result.Language = settings.LanguageJapanese
				if m.english {
					m.result.Language = settings.LanguageEnglish
				}
				m.step = stepRemote
				return m, nil
			case "ctrl+c", "q":
				return m.cancel()
			default:
				return m, nil
			}
		case stepRemote:
			switch msg.String() {
			case "enter":
				m.result.RemoteBaseURL = strings.TrimSpace(m.urlInput.Value())
				if m.result.RemoteBaseURL == "" {
					m.status = "No URL entered. Loading flows by name is disabled."
				} else {
					m.status = "Remote flows will load from " + m.result.RemoteBaseURL
				}
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.status = "Skipped. Loading flows by name is disabled."
				m.step = stepDone
				return m, tea.Quit
			case "ctrl+c":
				return m.cancel()
			}
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	m.status = "Setup canceled."
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("questflow") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("2006/01/02")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	langTab := obTabInactive.Render("Language / 言語")
	remoteTab := obTabInactive.Render("Published flows")
	if m.step == stepLanguage {
		langTab = obTabActive.Render("Language / 言語")
	}
	if m.step == stepRemote {
		remoteTab = obTabActive.Render("Published flows")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", langTab, remoteTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepLanguage:
		return obFooterStyle.Width(width).Render("↑↓/jk to choose  enter to confirm  q cancel")
	case stepRemote:
		return obFooterStyle.Width(width).Render("enter save  esc skip  ctrl+c cancel")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepLanguage:
		var ja, en string
		if m.english {
			ja = "    " + obOptionStyle.Render("日本語")
			en = "  " + obOptionSelected.Render("→ English")
		} else {
			ja = "  " + obOptionSelected.Render("→ 日本語")
			en = "    " + obOptionStyle.Render("English")
		}
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Display language / 表示言語"),
			"",
			ja,
			en,
			"",
			obMutedStyle.Render("You can change this later on the settings screen (,)."),
		)
	case stepRemote:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Where are published flows hosted?"),
			"",
			obMutedStyle.Render("Flows are fetched from <url>/flows/<name>.json."),
			obMutedStyle.Render("Leave empty to only use local files and the library."),
			"",
			obLabelStyle.Render("Base URL"),
			input,
			"",
			obMutedStyle.Render("Press Enter to save, Esc to skip."),
		)
	default:
		msg := obMutedStyle.Render(m.status)
		if m.cancelled || strings.Contains(m.status, "disabled") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Setup Complete"), "", msg)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

// runOnboarding shows the first-run setup and stores its answers. A
// cancelled setup still records the settings so it does not run again.
func runOnboarding(store *settings.Store, cfg *config.Config, configPath string) error {
	prog := tea.NewProgram(newOnboardingModel(store.Get(), cfg.Remote.BaseURL), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return fmt.Errorf("unexpected onboarding model type")
	}
	return applyOnboarding(m.result, m.cancelled, store, cfg, configPath)
}

func applyOnboarding(res onboardingResult, cancelled bool, store *settings.Store, cfg *config.Config, configPath string) error {
	if err := store.Update(func(s *settings.Settings) {
		if !cancelled {
			s.Language = res.Language
		}
	}); err != nil {
		return err
	}
	if cancelled || res.RemoteBaseURL == cfg.Remote.BaseURL {
		return nil
	}
	cfg.Remote.BaseURL = res.RemoteBaseURL
	return cfg.Save(configPath)
}
