package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/model"
)

func TestBounds_PenPath(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindPen,
		Data: &model.PenData{Points: []model.Point{
			{X: 10, Y: 40}, {X: 30, Y: 5}, {X: 25, Y: 60},
		}},
	}
	box, ok := Bounds(obj)
	require.True(t, ok)
	require.Equal(t, Box{X: 10, Y: 5, W: 20, H: 55}, box)
}

func TestBounds_PenTooShort(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindPen,
		Data: &model.PenData{Points: []model.Point{{X: 1, Y: 1}}},
	}
	_, ok := Bounds(obj)
	require.False(t, ok)
}

func TestBounds_RectangleNegativeExtent(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindRectangle,
		Data: &model.RectangleData{X: 100, Y: 100, Width: -40, Height: -20},
	}
	box, ok := Bounds(obj)
	require.True(t, ok)
	require.Equal(t, Box{X: 60, Y: 80, W: 40, H: 20}, box)
}

func TestBounds_Circle(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindCircle,
		Data: &model.CircleData{X: 50, Y: 50, Radius: 25},
	}
	box, ok := Bounds(obj)
	require.True(t, ok)
	require.Equal(t, Box{X: 25, Y: 25, W: 50, H: 50}, box)
	require.Equal(t, model.Point{X: 50, Y: 50}, box.Center())
}

func TestBounds_TextDefaults(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindText,
		Data: &model.TextData{X: 5, Y: 7, Text: "hi"},
	}
	box, ok := Bounds(obj)
	require.True(t, ok)
	require.Equal(t, Box{X: 5, Y: 7, W: 120, H: 16}, box)

	obj.Data = &model.TextData{X: 5, Y: 7, Text: "hi", FontSize: 24}
	box, ok = Bounds(obj)
	require.True(t, ok)
	require.Equal(t, 24.0, box.H)
}

func TestBounds_NilData(t *testing.T) {
	_, ok := Bounds(model.BoardObject{Kind: model.KindRectangle})
	require.False(t, ok)
}

func TestBounds_Idempotent(t *testing.T) {
	obj := model.BoardObject{
		Kind: model.KindArrow,
		Data: &model.ArrowData{Points: []model.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
	}
	first, ok := Bounds(obj)
	require.True(t, ok)
	second, ok := Bounds(obj)
	require.True(t, ok)
	require.Equal(t, first, second)
}
