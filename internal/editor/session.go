// Package editor owns the open flow document and coordinates its edit mode,
// undo history and playback cursor.
package editor

import (
	"errors"
	"fmt"
	"time"

	"questflow/internal/cursor"
	"questflow/internal/history"
	"questflow/internal/model"
	"questflow/internal/paste"

	"go.uber.org/zap"
)

var (
	// ErrReadOnly is returned by mutations attempted outside edit mode.
	ErrReadOnly = errors.New("flow is not in edit mode")
	// ErrNoSuchRow is returned by row operations given an index outside the table.
	ErrNoSuchRow = errors.New("no such row")
)

// UpdateDateLayout is the format of Flow.UpdateDate.
const UpdateDateLayout = "2006/01/02 15:04"

// Source records where the open document came from.
type Source struct {
	Path      string // local JSON file
	LibraryID string // SQLite library entry
	Remote    string // remote flow name
}

// Session is the single writer of the open flow. Readers get copies.
type Session struct {
	logger  *zap.Logger
	doc     model.Flow
	source  Source
	editing bool
	dirty   bool

	history *history.History
	cursor  *cursor.Cursor
}

// New returns a session holding a blank flow in edit mode.
func New(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{logger: logger}
	s.history = history.New(s.Editing)
	s.cursor = cursor.New(s.RowCount, s.Editing)
	s.NewFlow()
	return s
}

// Flow returns a copy of the open document.
func (s *Session) Flow() model.Flow {
	return s.doc.Clone()
}

// RowCount returns the number of action rows.
func (s *Session) RowCount() int {
	return len(s.doc.Flow)
}

// Action returns a row of the action table.
func (s *Session) Action(row int) (model.Action, bool) {
	if row < 0 || row >= len(s.doc.Flow) {
		return model.Action{}, false
	}
	return s.doc.Flow[row], true
}

// Editing reports whether the document is in edit mode.
func (s *Session) Editing() bool {
	return s.editing
}

// Dirty reports whether the document changed since it was loaded or saved.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Source returns where the document came from.
func (s *Session) Source() Source {
	return s.source
}

// SetSource records a new origin, e.g. after saving to a new place.
func (s *Session) SetSource(src Source) {
	s.source = src
}

// CurrentRow returns the playback cursor.
func (s *Session) CurrentRow() int {
	return s.cursor.Current()
}

// SetCurrentRow moves the playback cursor with bounds checking.
func (s *Session) SetCurrentRow(row int) error {
	return s.cursor.SetCurrentRow(row)
}

// SelectRow moves the playback cursor unless the session is editing.
func (s *Session) SelectRow(row int) (bool, error) {
	return s.cursor.Select(row)
}

// CanUndo reports whether Undo may change the document.
func (s *Session) CanUndo() bool {
	return s.editing && s.history.CanUndo()
}

// CanRedo reports whether Redo has something to apply.
func (s *Session) CanRedo() bool {
	return s.editing && s.history.CanRedo()
}

// NewFlow replaces the document with a blank flow and starts editing it.
func (s *Session) NewFlow() {
	s.replace(model.NewFlow(), Source{})
	s.EnterEditMode()
	s.logger.Info("new flow")
}

// Load replaces the document wholesale and leaves edit mode.
func (s *Session) Load(f model.Flow, src Source) {
	s.replace(f.Clone(), src)
	s.logger.Info("flow loaded",
		zap.String("title", f.Title),
		zap.Int("rows", len(f.Flow)),
		zap.String("path", src.Path),
		zap.String("library_id", src.LibraryID),
		zap.String("remote", src.Remote),
	)
}

func (s *Session) replace(f model.Flow, src Source) {
	s.editing = false
	s.history.Clear()
	s.doc = f
	s.source = src
	s.dirty = false
	s.cursor.Reset()
}

// EnterEditMode makes the document mutable. The current document becomes
// the session original that undo can always return to.
func (s *Session) EnterEditMode() {
	if s.editing {
		return
	}
	s.editing = true
	s.history.Begin(s.doc)
}

// ExitEditMode drops the undo history and rewinds playback to the first row.
func (s *Session) ExitEditMode() {
	if !s.editing {
		return
	}
	s.editing = false
	s.history.Clear()
	s.cursor.Reset()
}

// Edit applies fn to a copy of the document and commits it as one undo step.
// Nothing changes when fn returns an error.
func (s *Session) Edit(fn func(f *model.Flow) error) error {
	if !s.editing {
		return ErrReadOnly
	}
	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.history.Push(s.doc)
	s.doc = next
	s.dirty = true
	return nil
}

// SetCell changes one cell of the action table.
func (s *Session) SetCell(row int, field, value string) error {
	return s.Edit(func(f *model.Flow) error {
		if err := checkRow(f, row); err != nil {
			return err
		}
		if !f.Flow[row].Set(field, value) {
			return fmt.Errorf("%w: %q", paste.ErrInvalidStartField, field)
		}
		return nil
	})
}

// Paste applies clipboard text at (row, field) and returns how many rows it
// touched. A single cell pastes like typing; a block is spread over the
// following columns and rows, appending rows past the end of the table.
func (s *Session) Paste(row int, field, text string) (int, error) {
	if !s.editing {
		return 0, ErrReadOnly
	}
	grid := paste.ParseTSV(text)
	if len(grid) == 0 {
		return 0, paste.ErrNoValidRows
	}
	if len(grid) == 1 && len(grid[0]) == 1 {
		if err := s.SetCell(row, field, grid[0][0]); err != nil {
			return 0, err
		}
		return 1, nil
	}

	partials, err := paste.MapRows(grid, field, model.ActionFields)
	if err != nil {
		return 0, err
	}
	err = s.Edit(func(f *model.Flow) error {
		if row < 0 || row > len(f.Flow) {
			return fmt.Errorf("%w: %d", ErrNoSuchRow, row)
		}
		for i, partial := range partials {
			at := row + i
			if at == len(f.Flow) {
				f.Flow = append(f.Flow, model.Action{})
			}
			f.Flow[at].Merge(partial)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("pasted block", zap.Int("row", row), zap.String("field", field), zap.Int("rows", len(partials)))
	return len(partials), nil
}

// InsertRow inserts an empty row at index at (0..len).
func (s *Session) InsertRow(at int) error {
	return s.Edit(func(f *model.Flow) error {
		if at < 0 || at > len(f.Flow) {
			return fmt.Errorf("%w: %d", ErrNoSuchRow, at)
		}
		f.Flow = append(f.Flow, model.Action{})
		copy(f.Flow[at+1:], f.Flow[at:])
		f.Flow[at] = model.Action{}
		return nil
	})
}

// DuplicateRow inserts a copy of row directly below it.
func (s *Session) DuplicateRow(row int) error {
	return s.Edit(func(f *model.Flow) error {
		if err := checkRow(f, row); err != nil {
			return err
		}
		dup := f.Flow[row]
		f.Flow = append(f.Flow, model.Action{})
		copy(f.Flow[row+2:], f.Flow[row+1:])
		f.Flow[row+1] = dup
		return nil
	})
}

// DeleteRow removes a row.
func (s *Session) DeleteRow(row int) error {
	return s.Edit(func(f *model.Flow) error {
		if err := checkRow(f, row); err != nil {
			return err
		}
		f.Flow = append(f.Flow[:row], f.Flow[row+1:]...)
		return nil
	})
}

// MoveRow swaps a row with its neighbour delta rows away.
func (s *Session) MoveRow(row, delta int) error {
	return s.Edit(func(f *model.Flow) error {
		if err := checkRow(f, row); err != nil {
			return err
		}
		if err := checkRow(f, row+delta); err != nil {
			return err
		}
		f.Flow[row], f.Flow[row+delta] = f.Flow[row+delta], f.Flow[row]
		return nil
	})
}

// ToggleMarker cycles a charge/guard cell through empty, 〇 and ✖.
func (s *Session) ToggleMarker(row int, field string) error {
	if !model.IsMarkerField(field) {
		return fmt.Errorf("%q is not a marker column", field)
	}
	return s.Edit(func(f *model.Flow) error {
		if err := checkRow(f, row); err != nil {
			return err
		}
		v, _ := f.Flow[row].Get(field)
		f.Flow[row].Set(field, model.NextMarker(v))
		return nil
	})
}

// Undo steps the document back. It reports false when nothing changed.
func (s *Session) Undo() bool {
	if !s.editing {
		return false
	}
	prev, ok := s.history.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = prev
	s.dirty = true
	return true
}

// Redo re-applies an undone step. It reports false when nothing changed.
func (s *Session) Redo() bool {
	if !s.editing {
		return false
	}
	next, ok := s.history.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = next
	s.dirty = true
	return true
}

// Stamp sets the update date for saving and returns the document to write.
// The stamp is not an undo step.
func (s *Session) Stamp(now time.Time) model.Flow {
	s.doc.UpdateDate = now.Format(UpdateDateLayout)
	return s.doc.Clone()
}

// MarkSaved clears the dirty flag after a successful write.
func (s *Session) MarkSaved(src Source) {
	s.source = src
	s.dirty = false
}

func checkRow(f *model.Flow, row int) error {
	if row < 0 || row >= len(f.Flow) {
		return fmt.Errorf("%w: %d", ErrNoSuchRow, row)
	}
	return nil
}
