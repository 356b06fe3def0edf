package ui

import (
	"strings"

	"questflow/internal/i18n"
	"questflow/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	detailsTitle = iota
	detailsQuest
	detailsAuthor
	detailsDescription
	detailsNote
	detailsFieldCount
)

// DetailsFormModel edits the flow's title, quest, author, description and note.
type DetailsFormModel struct {
	keys         FormKeyMap
	focusedField int
	inputs       []textinput.Model // title, quest, author, note
	description  textarea.Model
}

// NewDetailsFormModel creates a details form filled from f.
func NewDetailsFormModel(f model.Flow, tr *i18n.Translator) *DetailsFormModel {
	inputs := make([]textinput.Model, 4)

	inputs[0] = textinput.New()
	inputs[0].Placeholder = tr.T("Title")
	inputs[0].CharLimit = 120
	inputs[0].SetValue(f.Title)
	inputs[0].Focus()

	inputs[1] = textinput.New()
	inputs[1].Placeholder = tr.T("Quest")
	inputs[1].CharLimit = 120
	inputs[1].SetValue(f.Quest)

	inputs[2] = textinput.New()
	inputs[2].Placeholder = tr.T("Author")
	inputs[2].CharLimit = 60
	inputs[2].SetValue(f.Author)

	inputs[3] = textinput.New()
	inputs[3].Placeholder = tr.T("Note")
	inputs[3].CharLimit = 500
	inputs[3].SetValue(f.Note)

	desc := textarea.New()
	desc.Placeholder = tr.T("Description")
	desc.ShowLineNumbers = false
	desc.CharLimit = 4000
	desc.SetHeight(5)
	desc.SetValue(f.Description)

	return &DetailsFormModel{
		keys:        DefaultFormKeyMap(),
		inputs:      inputs,
		description: desc,
	}
}

// Update handles input.
func (m DetailsFormModel) Update(msg tea.Msg) (DetailsFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.submit()
		case key.Matches(keyMsg, m.keys.NextField):
			return m, m.focus((m.focusedField + 1) % detailsFieldCount)
		case key.Matches(keyMsg, m.keys.PrevField):
			return m, m.focus((m.focusedField + detailsFieldCount - 1) % detailsFieldCount)
		}
	}

	var cmd tea.Cmd
	if m.focusedField == detailsDescription {
		m.description, cmd = m.description.Update(msg)
		return m, cmd
	}
	i := m.inputIndex(m.focusedField)
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

// View renders the form.
func (m *DetailsFormModel) View(width, height int, tr *i18n.Translator) string {
	inner := max(width-12, 20)
	for i := range m.inputs {
		m.inputs[i].Width = inner
	}
	m.description.SetWidth(inner)

	fields := []string{
		renderFormField(tr.T("Title"), m.inputs[0].View(), m.focusedField == detailsTitle),
		renderFormField(tr.T("Quest"), m.inputs[1].View(), m.focusedField == detailsQuest),
		renderFormField(tr.T("Author"), m.inputs[2].View(), m.focusedField == detailsAuthor),
		renderFormField(tr.T("Description"), m.description.View(), m.focusedField == detailsDescription),
		renderFormField(tr.T("Note"), m.inputs[3].View(), m.focusedField == detailsNote),
	}

	return PanelStyle.
		Width(width - 4).
		Height(max(height-4, 0)).
		Render(strings.Join(fields, "\n"))
}

func (m *DetailsFormModel) inputIndex(field int) int {
	if field == detailsNote {
		return 3
	}
	return field
}

func (m *DetailsFormModel) focus(field int) tea.Cmd {
	if m.focusedField == detailsDescription {
		m.description.Blur()
	} else {
		m.inputs[m.inputIndex(m.focusedField)].Blur()
	}
	m.focusedField = field
	if field == detailsDescription {
		return m.description.Focus()
	}
	return m.inputs[m.inputIndex(field)].Focus()
}

func (m *DetailsFormModel) submit() tea.Cmd {
	msg := model.DetailsSubmittedMsg{
		Title:       strings.TrimSpace(m.inputs[0].Value()),
		Quest:       strings.TrimSpace(m.inputs[1].Value()),
		Author:      strings.TrimSpace(m.inputs[2].Value()),
		Description: m.description.Value(),
		Note:        m.inputs[3].Value(),
	}
	return func() tea.Msg { return msg }
}

// renderFormField renders a labelled form control.
func renderFormField(label, control string, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		control,
	)

	return style.Render(field)
}
