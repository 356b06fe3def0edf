package model

// Marker values used in the charge and guard columns.
const (
	MarkerOn  = "〇"
	MarkerOff = "✖"
)

// Column keys of the action table, in display order.
const (
	FieldHP         = "hp"
	FieldPrediction = "prediction"
	FieldCharge     = "charge"
	FieldGuard      = "guard"
	FieldAction     = "action"
	FieldNote       = "note"
)

// ActionFields is the column order of the action table.
var ActionFields = []string{
	FieldHP,
	FieldPrediction,
	FieldCharge,
	FieldGuard,
	FieldAction,
	FieldNote,
}

// Flow is a quest flow document.
type Flow struct {
	Title        string       `json:"title"`
	Quest        string       `json:"quest"`
	Author       string       `json:"author"`
	Description  string       `json:"description"`
	Note         string       `json:"note"`
	UpdateDate   string       `json:"updateDate"`
	Organization Organization `json:"organization"`
	Flow         []Action     `json:"flow"`
}

// Action is one row of the action table. Row position is its identity.
type Action struct {
	HP         string `json:"hp"`
	Prediction string `json:"prediction"`
	Charge     string `json:"charge"`
	Guard      string `json:"guard"`
	Action     string `json:"action"`
	Note       string `json:"note"`
}

// Slot is a named piece of the loadout with a free-text note.
type Slot struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// Job is the main character's class setup.
type Job struct {
	Name      string `json:"name"`
	Note      string `json:"note"`
	Equipment Slot   `json:"equipment"`
	Abilities []Slot `json:"abilities"`
}

// Members holds the party characters.
type Members struct {
	Front []Slot `json:"front"`
	Back  []Slot `json:"back"`
}

// Weapons holds the weapon grid.
type Weapons struct {
	Main       Slot   `json:"main"`
	Other      []Slot `json:"other"`
	Additional []Slot `json:"additional"`
}

// Summons holds the summon grid.
type Summons struct {
	Main   Slot   `json:"main"`
	Friend Slot   `json:"friend"`
	Other  []Slot `json:"other"`
	Sub    []Slot `json:"sub"`
}

// Effects are free-text aggregate values shown under a grid.
type Effects struct {
	TARate  string `json:"taRate"`
	HP      string `json:"hp"`
	Defense string `json:"defense"`
}

// Organization is the character/weapon/summon loadout of a flow.
type Organization struct {
	Job           Job     `json:"job"`
	Member        Members `json:"member"`
	Weapon        Weapons `json:"weapon"`
	WeaponEffects Effects `json:"weaponEffects"`
	Summon        Summons `json:"summon"`
	TotalEffects  Effects `json:"totalEffects"`
}

// Slot counts of a blank organization.
const (
	AbilitySlots          = 3
	FrontMemberSlots      = 3
	BackMemberSlots       = 2
	OtherWeaponSlots      = 9
	AdditionalWeaponSlots = 3
	OtherSummonSlots      = 4
	SubSummonSlots        = 2
)

// NewFlow returns a blank flow with a single empty action row.
func NewFlow() Flow {
	return Flow{
		Organization: NewOrganization(),
		Flow:         []Action{{}},
	}
}

// NewOrganization returns a loadout with every slot present and empty.
func NewOrganization() Organization {
	return Organization{
		Job: Job{Abilities: make([]Slot, AbilitySlots)},
		Member: Members{
			Front: make([]Slot, FrontMemberSlots),
			Back:  make([]Slot, BackMemberSlots),
		},
		Weapon: Weapons{
			Other:      make([]Slot, OtherWeaponSlots),
			Additional: make([]Slot, AdditionalWeaponSlots),
		},
		Summon: Summons{
			Other: make([]Slot, OtherSummonSlots),
			Sub:   make([]Slot, SubSummonSlots),
		},
	}
}

// Clone returns a deep copy of f.
func (f Flow) Clone() Flow {
	out := f
	out.Organization = f.Organization.Clone()
	if f.Flow != nil {
		out.Flow = append([]Action(nil), f.Flow...)
	}
	return out
}

// Clone returns a deep copy of o.
func (o Organization) Clone() Organization {
	out := o
	out.Job.Abilities = cloneSlots(o.Job.Abilities)
	out.Member.Front = cloneSlots(o.Member.Front)
	out.Member.Back = cloneSlots(o.Member.Back)
	out.Weapon.Other = cloneSlots(o.Weapon.Other)
	out.Weapon.Additional = cloneSlots(o.Weapon.Additional)
	out.Summon.Other = cloneSlots(o.Summon.Other)
	out.Summon.Sub = cloneSlots(o.Summon.Sub)
	return out
}

func cloneSlots(s []Slot) []Slot {
	if s == nil {
		return nil
	}
	return append([]Slot(nil), s...)
}

// Get returns the value of the named column.
func (a Action) Get(field string) (string, bool) {
	switch field {
	case FieldHP:
		return a.HP, true
	case FieldPrediction:
		return a.Prediction, true
	case FieldCharge:
		return a.Charge, true
	case FieldGuard:
		return a.Guard, true
	case FieldAction:
		return a.Action, true
	case FieldNote:
		return a.Note, true
	default:
		return "", false
	}
}

// Set assigns the named column. It reports false for unknown fields.
func (a *Action) Set(field, value string) bool {
	switch field {
	case FieldHP:
		a.HP = value
	case FieldPrediction:
		a.Prediction = value
	case FieldCharge:
		a.Charge = value
	case FieldGuard:
		a.Guard = value
	case FieldAction:
		a.Action = value
	case FieldNote:
		a.Note = value
	default:
		return false
	}
	return true
}

// Merge applies a partial row produced by the paste mapper.
func (a *Action) Merge(partial map[string]string) {
	for field, value := range partial {
		a.Set(field, value)
	}
}

// Cells returns the row in ActionFields order.
func (a Action) Cells() []string {
	cells := make([]string, len(ActionFields))
	for i, f := range ActionFields {
		cells[i], _ = a.Get(f)
	}
	return cells
}

// NextMarker cycles a charge/guard value through empty, on and off.
func NextMarker(v string) string {
	switch v {
	case "":
		return MarkerOn
	case MarkerOn:
		return MarkerOff
	default:
		return ""
	}
}

// IsMarkerField reports whether the column holds a 〇/✖ marker.
func IsMarkerField(field string) bool {
	return field == FieldCharge || field == FieldGuard
}
