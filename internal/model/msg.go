package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// InfoMsg carries an already translated status line.
type InfoMsg struct {
	Text string
}

// FlowsLoadedMsg is sent when the library list is loaded.
type FlowsLoadedMsg struct {
	Flows []FlowRow
}

// FlowLoadedMsg is sent when a flow document has been read from a file,
// the library or the remote site.
type FlowLoadedMsg struct {
	Flow      Flow
	Path      string
	LibraryID string
	Remote    string
}

// FlowSavedMsg is sent when the open flow has been written.
type FlowSavedMsg struct {
	LibraryID string
	Path      string
	Title     string
}

// FlowExportedMsg is sent when the open flow has been exported to a file.
type FlowExportedMsg struct {
	Path string
}

// FlowDeletedMsg is sent when a library entry has been deleted.
type FlowDeletedMsg struct {
	ID    string
	Title string
}

// ClipboardMsg carries text read from the system clipboard.
type ClipboardMsg struct {
	Text string
}

// DetailsSubmittedMsg is sent when the details form is saved.
type DetailsSubmittedMsg struct {
	Title       string
	Quest       string
	Author      string
	Description string
	Note        string
}

// OrganizationSubmittedMsg is sent when the organization form is saved.
type OrganizationSubmittedMsg struct {
	Organization Organization
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenLibrary Screen = iota
	ScreenFlow
	ScreenDetailsForm
	ScreenOrganizationForm
	ScreenSettings
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
