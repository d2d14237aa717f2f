package board

import "github.com/inkboard/inkboard/internal/model"

// History is a branch-free undo/redo stack of full object-list snapshots.
// Committing after an undo discards everything past the cursor.
type History struct {
	snapshots [][]model.BoardObject
	cursor    int
}

// NewHistory seeds the stack with the loaded document so the first undo has
// somewhere to land.
func NewHistory(initial []model.BoardObject) *History {
	return &History{
		snapshots: [][]model.BoardObject{model.CloneObjects(initial)},
		cursor:    0,
	}
}

func (h *History) Commit(objects []model.BoardObject) {
	h.snapshots = append(h.snapshots[:h.cursor+1], model.CloneObjects(objects))
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back and returns that snapshot. The result is applied
// to the document and re-broadcast, but never committed back into history.
func (h *History) Undo() ([]model.BoardObject, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return model.CloneObjects(h.snapshots[h.cursor]), true
}

func (h *History) Redo() ([]model.BoardObject, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return model.CloneObjects(h.snapshots[h.cursor]), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

func (h *History) Len() int { return len(h.snapshots) }
