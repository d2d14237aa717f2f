// Package geometry computes axis-aligned bounding boxes for board objects.
// Every function is pure and total: malformed or empty payloads yield
// (Box{}, false) instead of an error.
package geometry

import (
	"math"

	"github.com/inkboard/inkboard/internal/model"
)

const (
	defaultTextWidth  = 120
	defaultTextHeight = 16
)

type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

func (b Box) Center() model.Point {
	return model.Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Bounds returns the bounding box of an object, or false when the object has
// no usable geometry (nil payload, point list shorter than two points).
func Bounds(obj model.BoardObject) (Box, bool) {
	switch data := obj.Data.(type) {
	case *model.PenData:
		return pointsBounds(data.Points)
	case *model.ArrowData:
		return pointsBounds(data.Points)
	case *model.RectangleData:
		// Width/height may be negative when the shape was dragged toward the
		// origin; span the two corners instead.
		x, w := normalize(data.X, data.Width)
		y, h := normalize(data.Y, data.Height)
		return Box{X: x, Y: y, W: w, H: h}, true
	case *model.CircleData:
		r := math.Abs(data.Radius)
		return Box{X: data.X - r, Y: data.Y - r, W: 2 * r, H: 2 * r}, true
	case *model.TextData:
		w := data.Width
		if w <= 0 {
			w = defaultTextWidth
		}
		h := data.Height
		if h <= 0 {
			h = data.FontSize
		}
		if h <= 0 {
			h = defaultTextHeight
		}
		// Approximate: there is no real text measurement on the server side.
		return Box{X: data.X, Y: data.Y, W: w, H: h}, true
	default:
		return Box{}, false
	}
}

func pointsBounds(points []model.Point) (Box, bool) {
	if len(points) < 2 {
		return Box{}, false
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

func normalize(origin, extent float64) (float64, float64) {
	if extent < 0 {
		return origin + extent, -extent
	}
	return origin, extent
}
