package ui

import (
	"strings"

	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpContext selects which footer bindings apply.
type helpContext struct {
	screen      model.Screen
	mode        model.Mode
	editing     bool
	cellEditing bool
}

// RenderHelp renders the context-sensitive help footer, aligned per settings.
func RenderHelp(ctx helpContext, keys KeyMap, width int, st settings.Settings, tr *i18n.Translator) string {
	var bindings []key.Binding
	switch {
	case ctx.cellEditing:
		ck := DefaultCellKeyMap()
		bindings = []key.Binding{ck.Next, ck.Prev, ck.Commit, ck.Cancel}
	case ctx.mode == model.ModeInsert:
		fk := DefaultFormKeyMap()
		bindings = []key.Binding{fk.NextField, fk.PrevField, fk.Save, fk.Cancel}
	case ctx.screen == model.ScreenLibrary:
		bindings = []key.Binding{keys.Down, keys.Select, keys.NewFlow, keys.Remote, keys.Delete, keys.SortAsc, keys.FilterValue, keys.Settings, keys.Help, keys.Quit}
	case ctx.screen == model.ScreenSettings:
		bindings = []key.Binding{
			key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "choose")),
			key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "change")),
			keys.Back,
		}
	case ctx.editing:
		bindings = []key.Binding{keys.EditCell, keys.Paste, keys.InsertBelow, keys.DeleteRow, keys.ToggleMarker, keys.Undo, keys.Redo, keys.Details, keys.Organization, keys.Save, keys.ExitEdit}
	default:
		bindings = []key.Binding{keys.Down, keys.Top, keys.Bottom, keys.EditMode, keys.NewFlow, keys.Export, keys.Back, keys.Help}
	}

	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, helpKey(h.Key, tr.T(h.Desc)))
	}
	return renderHelpLine(items, width, st.ButtonAlign)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(items []string, width int, align string) string {
	pos := lipgloss.Left
	if align == settings.AlignRight {
		pos = lipgloss.Right
	}
	line := strings.Join(items, "  ")
	return FooterStyle.Width(width).Align(pos).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int, tr *i18n.Translator) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection(tr.T("Flows")),
		helpSection(tr, []helpItem{
			{"j / k", "Move down / up"},
			{"enter", "Open flow"},
			{"ctrl+n", "New flow"},
			{"R", "Load a published flow by name"},
			{"d", "Delete flow"},
			{"tab / shift+tab", "Cycle active column"},
			{"s / S", "Sort active column asc/desc"},
			{"n / N", "Filter by selected value / clear"},
			{",", "Settings"},
			{"q", "Quit"},
		}),
		titleSection(tr.T("View mode")),
		helpSection(tr, []helpItem{
			{"j / k", "Next / previous action"},
			{"gg / G", "Jump to first action / end"},
			{"e", "Start editing"},
			{"X", "Export JSON"},
			{"esc", "Back to flows"},
		}),
		titleSection(tr.T("Edit mode")),
		helpSection(tr, []helpItem{
			{"h j k l / tab", "Move between cells"},
			{"enter / i", "Edit cell"},
			{"p / ctrl+v", "Paste from clipboard"},
			{"y", "Copy row as TSV"},
			{"o / O", "Insert row below / above"},
			{"x / D", "Delete / duplicate row"},
			{"J / K", "Move row down / up"},
			{"space", "Cycle 〇 / ✖ in charge and guard"},
			{"u / ctrl+r", "Undo / redo"},
			{"t / r", "Edit details / organization"},
			{"/ then 1-6", "Jump to column"},
			{"ctrl+s", "Save"},
			{"esc", "Finish editing"},
		}),
		titleSection(tr.T("Cell editor")),
		helpSection(tr, []helpItem{
			{"tab / shift+tab", "Apply and move to next / previous column"},
			{"enter", "Apply"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render(tr.T("Help")),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render(tr.T("close help"))),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(tr *i18n.Translator, items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(tr.T(item.desc)))
	}
	return strings.Join(lines, "\n")
}
