package ui

import (
	"fmt"
	"strings"

	"questflow/internal/i18n"
	"questflow/internal/model"
	"questflow/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const orgLabelWidth = 26

// orgField is one editable string inside an Organization.
type orgField struct {
	group string
	index int // 1-based slot number, 0 for single slots
	part  string
	ref   func(o *model.Organization) *string
}

func (f orgField) label(tr *i18n.Translator) string {
	group := tr.T(f.group)
	if f.index > 0 {
		group = fmt.Sprintf("%s %d", group, f.index)
	}
	return group + " · " + tr.T(f.part)
}

// organizationFields flattens every slot of o into name/note fields.
func organizationFields(o model.Organization) []orgField {
	var fields []orgField
	text := func(group, part string, ref func(o *model.Organization) *string) {
		fields = append(fields, orgField{group: group, part: part, ref: ref})
	}
	slot := func(group string, index int, ref func(o *model.Organization) *model.Slot) {
		fields = append(fields,
			orgField{group, index, "Name", func(o *model.Organization) *string { return &ref(o).Name }},
			orgField{group, index, "Note", func(o *model.Organization) *string { return &ref(o).Note }},
		)
	}
	slots := func(group string, n int, ref func(o *model.Organization) []model.Slot) {
		for i := 0; i < n; i++ {
			i := i
			slot(group, i+1, func(o *model.Organization) *model.Slot { return &ref(o)[i] })
		}
	}
	effects := func(group string, ref func(o *model.Organization) *model.Effects) {
		text(group, "TA rate", func(o *model.Organization) *string { return &ref(o).TARate })
		text(group, "HP", func(o *model.Organization) *string { return &ref(o).HP })
		text(group, "Defense", func(o *model.Organization) *string { return &ref(o).Defense })
	}

	text("Job", "Name", func(o *model.Organization) *string { return &o.Job.Name })
	text("Job", "Note", func(o *model.Organization) *string { return &o.Job.Note })
	slot("Equipment", 0, func(o *model.Organization) *model.Slot { return &o.Job.Equipment })
	slots("Ability", len(o.Job.Abilities), func(o *model.Organization) []model.Slot { return o.Job.Abilities })
	slots("Front member", len(o.Member.Front), func(o *model.Organization) []model.Slot { return o.Member.Front })
	slots("Back member", len(o.Member.Back), func(o *model.Organization) []model.Slot { return o.Member.Back })
	slot("Main weapon", 0, func(o *model.Organization) *model.Slot { return &o.Weapon.Main })
	slots("Weapon", len(o.Weapon.Other), func(o *model.Organization) []model.Slot { return o.Weapon.Other })
	slots("Additional weapon", len(o.Weapon.Additional), func(o *model.Organization) []model.Slot { return o.Weapon.Additional })
	effects("Weapon effects", func(o *model.Organization) *model.Effects { return &o.WeaponEffects })
	slot("Main summon", 0, func(o *model.Organization) *model.Slot { return &o.Summon.Main })
	slot("Friend summon", 0, func(o *model.Organization) *model.Slot { return &o.Summon.Friend })
	slots("Summon", len(o.Summon.Other), func(o *model.Organization) []model.Slot { return o.Summon.Other })
	slots("Sub summon", len(o.Summon.Sub), func(o *model.Organization) []model.Slot { return o.Summon.Sub })
	effects("Total effects", func(o *model.Organization) *model.Effects { return &o.TotalEffects })
	return fields
}

// OrganizationFormModel edits the loadout as a scrolling list of fields.
type OrganizationFormModel struct {
	keys         FormKeyMap
	org          model.Organization
	fields       []orgField
	inputs       []textinput.Model
	focusedField int
	offset       int
}

// NewOrganizationFormModel creates an organization form filled from org.
func NewOrganizationFormModel(org model.Organization) *OrganizationFormModel {
	org = org.Clone()
	fields := organizationFields(org)
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].CharLimit = 200
		inputs[i].SetValue(*f.ref(&org))
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return &OrganizationFormModel{
		keys:   DefaultFormKeyMap(),
		org:    org,
		fields: fields,
		inputs: inputs,
	}
}

// Update handles input.
func (m OrganizationFormModel) Update(msg tea.Msg) (OrganizationFormModel, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.submit()
		case key.Matches(keyMsg, m.keys.NextField), keyMsg.String() == "down", keyMsg.String() == "enter":
			return m, m.focus((m.focusedField + 1) % len(m.inputs))
		case key.Matches(keyMsg, m.keys.PrevField), keyMsg.String() == "up":
			return m, m.focus((m.focusedField + len(m.inputs) - 1) % len(m.inputs))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
	return m, cmd
}

// View renders the form.
func (m *OrganizationFormModel) View(width, height int, tr *i18n.Translator) string {
	visible := max(height-6, 1)
	if m.focusedField < m.offset {
		m.offset = m.focusedField
	}
	if m.focusedField >= m.offset+visible {
		m.offset = m.focusedField - visible + 1
	}

	inputWidth := max(width-orgLabelWidth-12, 10)
	var lines []string
	for i := m.offset; i < len(m.fields) && i < m.offset+visible; i++ {
		label := util.Pad(m.fields[i].label(tr), orgLabelWidth)
		m.inputs[i].Width = inputWidth
		if i == m.focusedField {
			lines = append(lines, OptionSelectedStyle.Render("→ "+label)+" "+m.inputs[i].View())
			continue
		}
		lines = append(lines, "  "+LabelStyle.UnsetBold().Render(label)+" "+OptionStyle.Render(util.Truncate(m.inputs[i].Value(), inputWidth)))
	}

	position := StatusBarStyle.Render(fmt.Sprintf("%d/%d", m.focusedField+1, len(m.fields)))
	return PanelStyle.
		Width(width - 4).
		Height(max(height-4, 0)).
		Render(strings.Join(lines, "\n") + "\n\n" + position)
}

func (m *OrganizationFormModel) focus(field int) tea.Cmd {
	m.inputs[m.focusedField].Blur()
	m.focusedField = field
	return m.inputs[field].Focus()
}

// Organization returns the loadout with the form's current values.
func (m *OrganizationFormModel) Organization() model.Organization {
	out := m.org.Clone()
	for i, f := range m.fields {
		*f.ref(&out) = m.inputs[i].Value()
	}
	return out
}

func (m *OrganizationFormModel) submit() tea.Cmd {
	org := m.Organization()
	return func() tea.Msg {
		return model.OrganizationSubmittedMsg{Organization: org}
	}
}
