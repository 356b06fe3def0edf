package ui

import "questflow/internal/i18n"

// tableController is the column navigation shared by the library list and
// the action table.
type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	TableMeta(tr *i18n.Translator) string
}
