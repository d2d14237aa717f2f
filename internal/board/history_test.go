package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/model"
)

func ids(objects []model.BoardObject) []string {
	out := make([]string, 0, len(objects))
	for _, obj := range objects {
		out = append(out, obj.ID)
	}
	return out
}

func TestHistory_UndoRedoLinear(t *testing.T) {
	h := NewHistory(nil)
	h.Commit([]model.BoardObject{rect("a", 0, 0, 1, 1)})
	h.Commit([]model.BoardObject{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)})

	snap, ok := h.Undo()
	require.True(t, ok)
	require.Equal(t, []string{"a"}, ids(snap))

	snap, ok = h.Redo()
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, ids(snap))
	require.False(t, h.CanRedo())
}

func TestHistory_UndoAtSeedIsNoop(t *testing.T) {
	h := NewHistory([]model.BoardObject{rect("seed", 0, 0, 1, 1)})
	require.False(t, h.CanUndo())
	_, ok := h.Undo()
	require.False(t, ok)
}

func TestHistory_CommitAfterUndoTruncatesRedo(t *testing.T) {
	h := NewHistory(nil)
	h.Commit([]model.BoardObject{rect("a", 0, 0, 1, 1)})
	h.Commit([]model.BoardObject{rect("b", 0, 0, 1, 1)})

	_, ok := h.Undo()
	require.True(t, ok)
	h.Commit([]model.BoardObject{rect("c", 0, 0, 1, 1)})

	// The old redo branch is gone.
	require.False(t, h.CanRedo())
	_, ok = h.Redo()
	require.False(t, ok)

	snap, ok := h.Undo()
	require.True(t, ok)
	require.Equal(t, []string{"a"}, ids(snap))
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(nil)
	objs := []model.BoardObject{rect("a", 0, 0, 10, 10)}
	h.Commit(objs)
	objs[0].Data.(*model.RectangleData).X = 99

	snap, ok := h.Undo()
	require.True(t, ok)
	require.Empty(t, snap)
	snap, ok = h.Redo()
	require.True(t, ok)
	require.Equal(t, 0.0, snap[0].Data.(*model.RectangleData).X)
}
