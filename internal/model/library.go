package model

import "time"

// StoredFlow is a flow saved in the local library.
type StoredFlow struct {
	ID        string
	Flow      Flow
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FlowRow is a library entry for list display.
type FlowRow struct {
	ID        string
	Title     string
	Quest     string
	Author    string
	RowCount  int
	UpdatedAt time.Time
}
