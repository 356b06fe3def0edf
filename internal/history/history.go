// Package history keeps undo/redo snapshots of a flow during an edit session.
package history

import (
	"reflect"

	"questflow/internal/model"
)

// History holds past and future flow snapshots. Snapshots are deep copies;
// nothing stored here aliases the caller's document.
type History struct {
	editing  func() bool
	past     []model.Flow
	future   []model.Flow
	original *model.Flow
}

// New returns an empty history. Push is ignored whenever editing reports false.
func New(editing func() bool) *History {
	return &History{editing: editing}
}

// Begin records the document as it was when the edit session started.
func (h *History) Begin(original model.Flow) {
	o := original.Clone()
	h.original = &o
}

// Push stores snapshot as the newest undo step and drops the redo steps.
func (h *History) Push(snapshot model.Flow) {
	if h.editing == nil || !h.editing() {
		return
	}
	h.past = append(h.past, snapshot.Clone())
	h.future = nil
}

// Undo returns the document to show after undoing from current.
// It reports false when there is nothing to undo.
func (h *History) Undo(current model.Flow) (model.Flow, bool) {
	if n := len(h.past); n > 0 {
		prev := h.past[n-1]
		h.past = h.past[:n-1]
		h.future = append(h.future, current.Clone())
		return prev.Clone(), true
	}
	if h.original != nil && !reflect.DeepEqual(*h.original, current) {
		h.future = append(h.future, current.Clone())
		return h.original.Clone(), true
	}
	return current, false
}

// Redo returns the document to show after redoing from current.
// It reports false when there is nothing to redo.
func (h *History) Redo(current model.Flow) (model.Flow, bool) {
	n := len(h.future)
	if n == 0 {
		return current, false
	}
	next := h.future[n-1]
	h.future = h.future[:n-1]
	h.past = append(h.past, current.Clone())
	return next.Clone(), true
}

// Clear forgets every snapshot, including the session original.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
	h.original = nil
}

// CanUndo reports whether Undo may change the document.
func (h *History) CanUndo() bool {
	return len(h.past) > 0 || h.original != nil
}

// CanRedo reports whether Redo has a snapshot to apply.
func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// Depth returns the number of undo and redo steps.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}
