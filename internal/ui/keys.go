package ui

import "github.com/charmbracelet/bubbles/key"

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Select      key.Binding
	Back        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Quit        key.Binding
	Help        key.Binding
	NewFlow     key.Binding
	Delete      key.Binding
	Remote      key.Binding
	Settings    key.Binding
	SortAsc     key.Binding
	SortDesc    key.Binding
	FilterValue key.Binding
	ClearFilter key.Binding
	ColumnJump  key.Binding

	// flow screen
	EditMode     key.Binding
	ExitEdit     key.Binding
	Save         key.Binding
	Export       key.Binding
	EditCell     key.Binding
	InsertBelow  key.Binding
	InsertAbove  key.Binding
	DeleteRow    key.Binding
	Duplicate    key.Binding
	MoveRowDown  key.Binding
	MoveRowUp    key.Binding
	ToggleMarker key.Binding
	Paste        key.Binding
	CopyRow      key.Binding
	Details      key.Binding
	Organization key.Binding
	Undo         key.Binding
	Redo         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left", "shift+tab"),
			key.WithHelp("h/←", "prev col"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right", "tab"),
			key.WithHelp("l/→", "next col"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "end"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NewFlow: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new flow"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Remote: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "load by name"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		SortAsc: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort asc"),
		),
		SortDesc: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort desc"),
		),
		FilterValue: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "filter value"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "clear filter"),
		),
		ColumnJump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump col"),
		),
		EditMode: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		ExitEdit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "finish editing"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Export: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "export json"),
		),
		EditCell: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("enter/i", "edit cell"),
		),
		InsertBelow: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "row below"),
		),
		InsertAbove: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "row above"),
		),
		DeleteRow: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete row"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "duplicate row"),
		),
		MoveRowDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move row down"),
		),
		MoveRowUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move row up"),
		),
		ToggleMarker: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle 〇/✖"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p", "ctrl+v"),
			key.WithHelp("p", "paste"),
		),
		CopyRow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		Details: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "details"),
		),
		Organization: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "organization"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r", "ctrl+y"),
			key.WithHelp("ctrl+r", "redo"),
		),
	}
}

// FormKeyMap defines keybindings for insert/edit mode.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// CellKeyMap defines keybindings while a table cell is being edited.
type CellKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Commit key.Binding
	Cancel key.Binding
}

// DefaultCellKeyMap returns the default cell editor keybindings.
func DefaultCellKeyMap() CellKeyMap {
	return CellKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next column"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev column"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
