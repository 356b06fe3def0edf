package ui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"questflow/internal/db"
	"questflow/internal/editor"
	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/remote"
	"questflow/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var errRemoteDisabled = errors.New("remote loading is not configured")

// Deps are the services the TUI works with.
type Deps struct {
	DB        *sql.DB
	Session   *editor.Session
	Settings  *settings.Store
	Remote    *remote.Client // nil when no remote base URL is configured
	Logger    *zap.Logger
	ExportDir string
	PrefsPath string

	// Opened at startup instead of showing the library.
	OpenPath   string
	OpenRemote string
}

// Model is the root Bubble Tea model.
type Model struct {
	db        *sql.DB
	session   *editor.Session
	settings  *settings.Store
	remote    *remote.Client
	logger    *zap.Logger
	exportDir string
	openPath  string
	openName  string
	prefsPath string
	prefs     UIPreferences

	tr         *i18n.Translator
	screen     model.Screen
	prevScreen model.Screen
	mode       model.Mode
	gState     GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool

	// Screen models
	library      *LibraryModel
	table        *FlowTableModel
	detailsForm  *DetailsFormModel
	orgForm      *OrganizationFormModel
	settingsView *SettingsModel

	remotePrompt bool
	remoteInput  textinput.Model
	loading      string
	spinner      spinner.Model

	keys     KeyMap
	cellKeys CellKeyMap
	now      func() time.Time
}

// New creates a new root model.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tr := i18n.New(deps.Settings.Get().Language)
	deps.Settings.Subscribe(func(s settings.Settings) {
		*tr = *i18n.New(s.Language)
	})

	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 120

	var loading string
	if deps.Remote != nil && deps.OpenPath == "" {
		loading = deps.OpenRemote
	}

	prefs := loadUIPreferences(deps.PrefsPath)
	library := NewLibraryModel(nil)
	library.ApplyPrefs(prefs.Library)

	return Model{
		db:           deps.DB,
		session:      deps.Session,
		settings:     deps.Settings,
		remote:       deps.Remote,
		logger:       logger,
		exportDir:    deps.ExportDir,
		openPath:     deps.OpenPath,
		openName:     deps.OpenRemote,
		prefsPath:    deps.PrefsPath,
		prefs:        prefs,
		tr:           tr,
		screen:       model.ScreenLibrary,
		mode:         model.ModeNav,
		gState:       GStateIdle,
		library:      library,
		table:        NewFlowTableModel(),
		settingsView: NewSettingsModel(deps.Settings),
		remoteInput:  in,
		loading:      loading,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:         DefaultKeyMap(),
		cellKeys:     DefaultCellKeyMap(),
		now:          time.Now,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadFlowsCmd(m.db)}
	switch {
	case m.openPath != "":
		cmds = append(cmds, loadFileCmd(m.openPath))
	case m.openName != "" && m.remote == nil:
		cmds = append(cmds, func() tea.Msg { return model.ErrorMsg{Err: errRemoteDisabled} })
	case m.openName != "":
		cmds = append(cmds, fetchRemoteCmd(m.remote, m.openName), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if m.loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.remotePrompt {
			return m.handleRemotePrompt(msg)
		}

		if m.mode == model.ModeNav && m.columnJump {
			return m.handleColumnJump(msg)
		}

		// Handle help toggle
		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav && !m.table.Editing() {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}

		// Route to mode-specific handlers
		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.loading = ""
		m.error = m.translateError(msg.Err)
		m.logger.Warn("ui error", zap.Error(msg.Err))
		return m, nil

	case model.InfoMsg:
		m.info = msg.Text
		return m, nil

	case model.FlowsLoadedMsg:
		m.library.SetRows(msg.Flows)
		return m, nil

	case model.FlowLoadedMsg:
		m.loading = ""
		m.session.Load(msg.Flow, editor.Source{Path: msg.Path, LibraryID: msg.LibraryID, Remote: msg.Remote})
		m.table.Reset()
		m.screen = model.ScreenFlow
		m.mode = model.ModeNav
		m.error = ""
		m.info = m.tr.T("Loaded %s", displayTitle(msg.Flow.Title, m.tr))
		return m, nil

	case model.FlowSavedMsg:
		src := m.session.Source()
		src.LibraryID = msg.LibraryID
		src.Path = msg.Path
		m.session.MarkSaved(src)
		m.error = ""
		m.info = m.tr.T("Saved %s", displayTitle(msg.Title, m.tr))
		return m, loadFlowsCmd(m.db)

	case model.FlowExportedMsg:
		m.error = ""
		m.info = m.tr.T("Exported to %s", msg.Path)
		return m, nil

	case model.FlowDeletedMsg:
		if src := m.session.Source(); src.LibraryID == msg.ID {
			src.LibraryID = ""
			m.session.SetSource(src)
		}
		m.info = m.tr.T("Deleted %s", displayTitle(msg.Title, m.tr))
		return m, loadFlowsCmd(m.db)

	case model.ClipboardMsg:
		return m.applyPaste(msg.Text)

	case model.DetailsSubmittedMsg:
		err := m.session.Edit(func(f *model.Flow) error {
			f.Title = msg.Title
			f.Quest = msg.Quest
			f.Author = msg.Author
			f.Description = msg.Description
			f.Note = msg.Note
			return nil
		})
		return m.closeForm(err)

	case model.OrganizationSubmittedMsg:
		err := m.session.Edit(func(f *model.Flow) error {
			f.Organization = msg.Organization
			return nil
		})
		return m.closeForm(err)

	case model.FormCancelledMsg:
		return m.closeForm(nil)

	default:
		// Pass all other messages (cursor blink) to forms and the cell editor
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
		if m.table.Editing() {
			return m, m.table.UpdateInput(msg)
		}
		if m.remotePrompt {
			var cmd tea.Cmd
			m.remoteInput, cmd = m.remoteInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) translateError(err error) string {
	var clipErr *clipboardError
	switch {
	case errors.As(err, &clipErr):
		return m.tr.T("Clipboard unavailable: %v", clipErr.err)
	case errors.Is(err, errRemoteDisabled):
		return m.tr.T("Remote loading is not configured (set remote.base_url).")
	}
	return m.tr.Error(err)
}

func (m Model) closeForm(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.error = m.translateError(err)
		return m, nil
	}
	m.mode = model.ModeNav
	m.screen = model.ScreenFlow
	m.detailsForm = nil
	m.orgForm = nil
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height, m.tr)
	}

	banners := m.banners()
	// header: 2 lines, footer: 2 lines
	contentHeight := max(m.height-4-len(banners), 1)

	var content string
	title := displayTitle(m.session.Flow().Title, m.tr)
	var breadcrumbParts []string
	switch m.screen {
	case model.ScreenLibrary:
		breadcrumbParts = []string{m.tr.T("Flows")}
		content = m.library.View(m.width, contentHeight, m.tr, m.now())
	case model.ScreenFlow:
		breadcrumbParts = []string{m.tr.T("Flows"), title}
		content = m.table.View(m.width, contentHeight, m.session, m.settings.Get(), m.tr)
	case model.ScreenDetailsForm:
		breadcrumbParts = []string{m.tr.T("Flows"), title, m.tr.T("Details")}
		if m.detailsForm != nil {
			content = m.detailsForm.View(m.width, contentHeight, m.tr)
		}
	case model.ScreenOrganizationForm:
		breadcrumbParts = []string{m.tr.T("Flows"), title, m.tr.T("Organization")}
		if m.orgForm != nil {
			content = m.orgForm.View(m.width, contentHeight, m.tr)
		}
	case model.ScreenSettings:
		breadcrumbParts = []string{m.tr.T("Settings")}
		content = m.settingsView.View(m.width, contentHeight, m.tr)
	}

	header := m.renderHeader(breadcrumbParts)
	footer := RenderHelp(helpContext{
		screen:      m.screen,
		mode:        m.mode,
		editing:     m.session.Editing(),
		cellEditing: m.table.Editing(),
	}, m.keys, m.width, m.settings.Get(), m.tr)

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := append([]string{header}, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// banners are the one-line rows between the header and the content.
func (m Model) banners() []string {
	var lines []string
	if m.error != "" {
		lines = append(lines, ErrorStyle.Width(m.width).Render(m.tr.T("Error: %s", m.error)))
	}
	if m.info != "" {
		lines = append(lines, SuccessStyle.Width(m.width).Render(m.info))
	}
	switch {
	case m.remotePrompt:
		lines = append(lines, StatusBarStyle.Render(m.tr.T("Flow name:")+" "+m.remoteInput.View()))
	case m.loading != "":
		lines = append(lines, StatusBarStyle.Render(m.spinner.View()+" "+m.tr.T("Loading %s...", m.loading)))
	case m.columnJump:
		lines = append(lines, StatusBarStyle.Render(m.tr.T("Jump to column: press 1-9 (esc to cancel)")))
	}
	return lines
}

func (m Model) renderHeader(breadcrumbParts []string) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("questflow")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: mode badge, unsaved marker, date
	var right string
	if m.screen != model.ScreenLibrary && m.screen != model.ScreenSettings {
		if m.session.Editing() {
			right = EditBadgeStyle.Render(m.tr.T("EDIT"))
		} else {
			right = ViewBadgeStyle.Render(m.tr.T("VIEW"))
		}
		if m.session.Dirty() {
			right += BreadcrumbActiveStyle.Render(" ●")
		}
		right += "  "
	}
	right += BreadcrumbStyle.Render(m.now().Format("2006/01/02")) + "  "

	padding := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return TitleStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle "gg" state machine
	if msg.String() == "g" && !m.table.Editing() {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		return m.handleJumpToTop()
	}
	m.gState = GStateIdle

	switch m.screen {
	case model.ScreenLibrary:
		return m.handleLibraryNav(msg)
	case model.ScreenFlow:
		return m.handleFlowNav(msg)
	case model.ScreenSettings:
		return m.handleSettingsNav(msg)
	}
	return m, nil
}

func (m Model) handleColumnJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.columnJump = false
		return m, nil
	}
	n, err := strconv.Atoi(msg.String())
	if err != nil {
		return m, nil
	}
	if t := m.currentTable(); t != nil && t.JumpToColumn(n) {
		m.columnJump = false
		m.info = t.TableMeta(m.tr)
		if m.screen == model.ScreenLibrary {
			m.persistLibraryPrefs()
		}
		return m, nil
	}
	m.info = m.tr.T("Column %d unavailable", n)
	return m, nil
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenLibrary:
		return m.library
	case model.ScreenFlow:
		return m.table
	}
	return nil
}

// handleInsertMode handles form input.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenDetailsForm:
		if m.detailsForm != nil {
			newForm, cmd := m.detailsForm.Update(msg)
			m.detailsForm = &newForm
			return m, cmd
		}
	case model.ScreenOrganizationForm:
		if m.orgForm != nil {
			newForm, cmd := m.orgForm.Update(msg)
			m.orgForm = &newForm
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleJumpToTop() (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenLibrary:
		m.library.JumpToTop()
	case model.ScreenFlow:
		if m.session.Editing() {
			m.table.SetRow(0, m.session.RowCount())
			return m, nil
		}
		return m.setCurrentRow(0)
	}
	return m, nil
}

func (m Model) handleLibraryNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.library.confirmDelete != "" {
		id := m.library.confirmDelete
		m.library.confirmDelete = ""
		if msg.String() == "y" {
			return m, deleteFlowCmd(m.db, id)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.library.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.library.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.library.JumpToBottom()
	case msg.String() == "tab":
		m.library.NextColumn()
		m.persistLibraryPrefs()
	case msg.String() == "shift+tab":
		m.library.PrevColumn()
		m.persistLibraryPrefs()
	case key.Matches(msg, m.keys.ColumnJump):
		m.columnJump = true
	case key.Matches(msg, m.keys.SortAsc):
		m.library.SortActiveColumn(false)
		m.persistLibraryPrefs()
	case key.Matches(msg, m.keys.SortDesc):
		m.library.SortActiveColumn(true)
		m.persistLibraryPrefs()
	case key.Matches(msg, m.keys.FilterValue):
		if !m.library.FilterBySelectedValue() {
			m.info = m.tr.T("No filterable value in selected cell")
		}
	case key.Matches(msg, m.keys.ClearFilter):
		m.library.ClearFilter()
	case key.Matches(msg, m.keys.Select), msg.String() == "l":
		if row, ok := m.library.Selected(); ok {
			m.loading = displayTitle(row.Title, m.tr)
			return m, tea.Batch(loadLibraryFlowCmd(m.db, row.ID), m.spinner.Tick)
		}
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.library.Selected(); ok {
			m.library.confirmDelete = row.ID
		}
	case key.Matches(msg, m.keys.NewFlow):
		return m.newFlow()
	case key.Matches(msg, m.keys.Remote):
		if m.remote == nil {
			m.error = m.translateError(errRemoteDisabled)
			return m, nil
		}
		m.remotePrompt = true
		m.remoteInput.SetValue("")
		return m, m.remoteInput.Focus()
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()
	case key.Matches(msg, m.keys.Back):
		// back to the open document
		m.screen = model.ScreenFlow
	}
	return m, nil
}

func (m *Model) persistLibraryPrefs() {
	m.prefs.Library = m.library.Prefs()
	if err := saveUIPreferences(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("failed to save ui prefs", zap.Error(err))
	}
}

func (m Model) handleRemotePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.remotePrompt = false
		m.remoteInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.remoteInput.Value())
		m.remotePrompt = false
		m.remoteInput.Blur()
		if name == "" {
			return m, nil
		}
		m.loading = name
		return m, tea.Batch(fetchRemoteCmd(m.remote, name), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.remoteInput, cmd = m.remoteInput.Update(msg)
	return m, cmd
}

func (m Model) handleSettingsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || msg.String() == "q" || key.Matches(msg, m.keys.Settings) {
		m.screen = m.prevScreen
		return m, nil
	}
	if err := m.settingsView.Update(msg); err != nil {
		m.error = m.translateError(err)
		return m, nil
	}
	m.error = ""
	return m, nil
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	m.prevScreen = m.screen
	m.screen = model.ScreenSettings
	return m, nil
}

func (m Model) newFlow() (tea.Model, tea.Cmd) {
	m.session.NewFlow()
	m.table.Reset()
	m.screen = model.ScreenFlow
	m.error = ""
	m.info = m.tr.T("New flow")
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != model.ScreenFlow || m.mode != model.ModeNav || m.table.Editing() || m.showingHelp {
		return m, nil
	}
	rowCount := m.session.RowCount()

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		if m.session.Editing() {
			m.table.MoveDown(rowCount)
			return m, nil
		}
		return m.setCurrentRow(m.session.CurrentRow() + 1)
	case tea.MouseButtonWheelUp:
		if m.session.Editing() {
			m.table.MoveUp(rowCount)
			return m, nil
		}
		return m.setCurrentRow(m.session.CurrentRow() - 1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	// header is two lines tall
	row, ok := m.table.RowAt(msg.Y-2-len(m.banners()), rowCount)
	if !ok {
		return m, nil
	}
	if !m.table.Click(row, m.settings.Get().ClickMode, m.now()) {
		return m, nil
	}
	return m.activateRow(row)
}

// activateRow handles a row click: it moves playback in view mode and the
// edit focus in edit mode.
func (m Model) activateRow(row int) (tea.Model, tea.Cmd) {
	if m.session.Editing() {
		if row < m.session.RowCount() {
			m.table.SetRow(row, m.session.RowCount())
		}
		return m, nil
	}
	if _, err := m.session.SelectRow(row); err != nil {
		m.error = m.translateError(err)
	}
	return m, nil
}

// Commands

func loadFlowsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		flows, err := db.ListFlows(database, "")
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.FlowsLoadedMsg{Flows: flows}
	}
}

func loadLibraryFlowCmd(database *sql.DB, id string) tea.Cmd {
	return func() tea.Msg {
		stored, err := db.GetFlow(database, id)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load flow: %w", err)}
		}
		return model.FlowLoadedMsg{Flow: stored.Flow, LibraryID: stored.ID}
	}
}

func loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := model.ReadFile(path)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.FlowLoadedMsg{Flow: f, Path: path}
	}
}

func fetchRemoteCmd(client *remote.Client, name string) tea.Cmd {
	return func() tea.Msg {
		f, err := client.Fetch(context.Background(), name)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.FlowLoadedMsg{Flow: f, Remote: name}
	}
}

func saveFlowCmd(database *sql.DB, f model.Flow, src editor.Source) tea.Cmd {
	return func() tea.Msg {
		id, err := db.SaveFlow(database, src.LibraryID, f)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		if src.Path != "" {
			if err := model.WriteFile(src.Path, f); err != nil {
				return model.ErrorMsg{Err: err}
			}
		}
		return model.FlowSavedMsg{LibraryID: id, Path: src.Path, Title: f.Title}
	}
}

func exportFlowCmd(dir string, f model.Flow) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, model.Filename(f))
		if err := model.WriteFile(path, f); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.FlowExportedMsg{Path: path}
	}
}

func deleteFlowCmd(database *sql.DB, id string) tea.Cmd {
	return func() tea.Msg {
		stored, err := db.GetFlow(database, id)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load flow before delete: %w", err)}
		}
		if err := db.DeleteFlow(database, id); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete flow: %w", err)}
		}
		return model.FlowDeletedMsg{ID: id, Title: stored.Flow.Title}
	}
}
