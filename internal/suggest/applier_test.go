package suggest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/board"
	"github.com/inkboard/inkboard/internal/model"
)

func docWithRect() *board.Document {
	return board.NewDocument([]model.BoardObject{{
		ID:   "target",
		Kind: model.KindRectangle,
		Data: &model.RectangleData{X: 10, Y: 20, Width: 100, Height: 50},
	}}, 1)
}

func TestApply_EmptyBoard(t *testing.T) {
	doc := board.NewDocument(nil, 4)
	_, err := Apply(model.Suggestion{Type: model.SuggestionAnnotation}, doc)
	require.ErrorIs(t, err, ErrNoTarget)
	require.Equal(t, int64(4), doc.Version())
}

func TestApply_TargetWithoutGeometry(t *testing.T) {
	doc := board.NewDocument([]model.BoardObject{{
		ID:   "short",
		Kind: model.KindPen,
		Data: &model.PenData{Points: []model.Point{{X: 1, Y: 1}}},
	}}, 2)
	_, err := Apply(model.Suggestion{Type: model.SuggestionShapeClean}, doc)
	require.ErrorIs(t, err, ErrNoTarget)
	require.Equal(t, int64(2), doc.Version())
}

func TestApply_ShapeCleanReplacesTarget(t *testing.T) {
	doc := docWithRect()
	created, err := Apply(model.Suggestion{Type: model.SuggestionShapeClean}, doc)
	require.NoError(t, err)

	require.Equal(t, 1, doc.Len())
	require.Equal(t, int64(2), doc.Version())
	_, found := doc.FindByID("target")
	require.False(t, found)

	last, _ := doc.Last()
	require.Equal(t, created.ID, last.ID)
	clean := last.Data.(*model.RectangleData)
	require.Equal(t, 10.0, clean.X)
	require.Equal(t, 100.0, clean.Width)
	require.NotEmpty(t, clean.Fill)
}

func TestApply_AnnotationAddsCenteredLabel(t *testing.T) {
	doc := docWithRect()
	created, err := Apply(model.Suggestion{Type: model.SuggestionAnnotation}, doc)
	require.NoError(t, err)

	require.Equal(t, 2, doc.Len())
	require.Equal(t, model.KindText, created.Kind)
	text := created.Data.(*model.TextData)
	require.Equal(t, "Label", text.Text)
	// Target center is (60, 45).
	require.Equal(t, 0.0, text.X)
	require.Equal(t, 37.0, text.Y)
}

func TestApply_DiagramImprovementIsOneCommit(t *testing.T) {
	doc := docWithRect()
	created, err := Apply(model.Suggestion{Type: model.SuggestionDiagramImprovement}, doc)
	require.NoError(t, err)

	require.Equal(t, 3, doc.Len())
	require.Equal(t, int64(2), doc.Version())
	require.Equal(t, model.KindRectangle, created.Kind)
	next := created.Data.(*model.RectangleData)
	require.Equal(t, 170.0, next.X)

	last, _ := doc.Last()
	require.Equal(t, model.KindArrow, last.Kind)
	arrow := last.Data.(*model.ArrowData)
	require.Equal(t, model.Point{X: 60, Y: 45}, arrow.Points[0])
	require.Equal(t, model.Point{X: 220, Y: 45}, arrow.Points[1])
}

func TestApply_TitleFallback(t *testing.T) {
	doc := docWithRect()
	created, err := Apply(model.Suggestion{Type: "something_new", Title: "Add labels everywhere"}, doc)
	require.NoError(t, err)
	require.Equal(t, model.KindText, created.Kind)
}

func TestApply_UnknownType(t *testing.T) {
	doc := docWithRect()
	_, err := Apply(model.Suggestion{Type: "something_new", Title: "mystery"}, doc)
	require.ErrorIs(t, err, ErrUnsupported)
	require.Equal(t, int64(1), doc.Version())
}
