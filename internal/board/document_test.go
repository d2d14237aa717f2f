package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/model"
)

func rect(id string, x, y, w, h float64) model.BoardObject {
	return model.BoardObject{
		ID:   id,
		Kind: model.KindRectangle,
		Data: &model.RectangleData{X: x, Y: y, Width: w, Height: h},
	}
}

func TestDocument_CreateBumpsVersionAndAppends(t *testing.T) {
	doc := NewDocument(nil, 0)
	doc.Create(rect("a", 0, 0, 10, 10))
	doc.Create(rect("b", 5, 5, 10, 10))

	require.Equal(t, int64(2), doc.Version())
	require.Equal(t, 2, doc.Len())
	last, ok := doc.Last()
	require.True(t, ok)
	require.Equal(t, "b", last.ID)
}

func TestDocument_CreateAllIsOneMutation(t *testing.T) {
	doc := NewDocument(nil, 0)
	doc.CreateAll([]model.BoardObject{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)})
	require.Equal(t, int64(1), doc.Version())
	require.Equal(t, 2, doc.Len())

	doc.CreateAll(nil)
	require.Equal(t, int64(1), doc.Version())
}

func TestDocument_DeleteByID(t *testing.T) {
	doc := NewDocument([]model.BoardObject{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)}, 3)
	require.True(t, doc.DeleteByID("a"))
	require.Equal(t, int64(4), doc.Version())
	require.Equal(t, 1, doc.Len())

	require.False(t, doc.DeleteByID("missing"))
	require.Equal(t, int64(4), doc.Version())
}

func TestDocument_OverwriteAdoptsRemoteVersion(t *testing.T) {
	doc := NewDocument([]model.BoardObject{rect("a", 0, 0, 1, 1)}, 7)
	doc.Overwrite([]model.BoardObject{rect("x", 0, 0, 1, 1), rect("y", 0, 0, 1, 1)}, 3)
	require.Equal(t, int64(3), doc.Version())
	require.Equal(t, 2, doc.Len())
}

func TestDocument_RestoreAdvancesVersion(t *testing.T) {
	doc := NewDocument([]model.BoardObject{rect("a", 0, 0, 1, 1)}, 5)
	doc.Restore(nil)
	require.Equal(t, int64(6), doc.Version())
	require.Equal(t, 0, doc.Len())
}

func TestDocument_UpdateGeometryCopyOnWrite(t *testing.T) {
	doc := NewDocument([]model.BoardObject{rect("a", 0, 0, 10, 10)}, 0)
	before := doc.Objects()

	x := 42.0
	require.True(t, doc.UpdateGeometry("a", GeometryPatch{X: &x}))
	require.Equal(t, int64(1), doc.Version())

	// The pre-mutation slice still holds the old value.
	original := before[0].Data.(*model.RectangleData)
	require.Equal(t, 0.0, original.X)
	patched, _ := doc.FindByID("a")
	require.Equal(t, 42.0, patched.Data.(*model.RectangleData).X)
}

func TestDocument_UpdateGeometryPenPoints(t *testing.T) {
	doc := NewDocument([]model.BoardObject{{
		ID:   "p",
		Kind: model.KindPen,
		Data: &model.PenData{Points: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
	}}, 0)
	require.True(t, doc.UpdateGeometry("p", GeometryPatch{
		Points: []model.Point{{X: 5, Y: 5}, {X: 6, Y: 6}},
	}))
	obj, _ := doc.FindByID("p")
	require.Equal(t, model.Point{X: 5, Y: 5}, obj.Data.(*model.PenData).Points[0])
}

func TestDocument_SeedIsCloned(t *testing.T) {
	seed := []model.BoardObject{rect("a", 0, 0, 10, 10)}
	doc := NewDocument(seed, 0)
	seed[0].Data.(*model.RectangleData).X = 99
	obj, _ := doc.FindByID("a")
	require.Equal(t, 0.0, obj.Data.(*model.RectangleData).X)
}
