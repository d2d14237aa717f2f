package interpret

import (
	"github.com/inkboard/inkboard/internal/geometry"
	"github.com/inkboard/inkboard/internal/model"
)

const (
	// BaseSize is the nominal edge length of a freshly created shape.
	BaseSize = 100.0
	// Spacing separates a new shape from its reference and row neighbours.
	Spacing = 20.0

	defaultFontSize  = 16.0
	defaultTextWidth = 120.0
)

// Viewport is the drawable area the client reports; new shapes with no
// resolvable reference land at its center.
type Viewport struct {
	W float64
	H float64
}

var DefaultViewport = Viewport{W: 1920, H: 1080}

func (v Viewport) center() model.Point {
	return model.Point{X: v.W / 2, Y: v.H / 2}
}

var defaultStyle = model.Style{Stroke: "#1e1e1e", StrokeWidth: 2}

// Build materializes a shape command into board objects, resolving the
// spatial reference against the current object list. It never fails: an
// unresolvable reference degrades to viewport-center placement.
func Build(cmd *model.ShapeCommand, objects []model.BoardObject, vp Viewport) []model.BoardObject {
	if cmd == nil {
		return nil
	}
	quantity := clampQuantity(cmd.Quantity)
	w, h := nominalSize(cmd.ShapeType)
	anchor := vp.center()

	if cmd.Position != model.PositionCenter && cmd.Position != "" {
		if ref, ok := resolveReference(cmd.Reference, objects); ok {
			if box, ok := geometry.Bounds(ref); ok {
				anchor = offsetAnchor(box, cmd.Position, w, h)
			}
			// A reference without usable bounds keeps the center default.
		}
	}

	out := make([]model.BoardObject, 0, quantity)
	totalW := float64(quantity)*w + float64(quantity-1)*Spacing
	for i := 0; i < quantity; i++ {
		center := anchor
		if quantity > 1 {
			center.X = anchor.X - totalW/2 + w/2 + float64(i)*(w+Spacing)
		}
		out = append(out, newShape(cmd.ShapeType, center, cmd.TextContent))
	}
	return out
}

// resolveReference finds the object a spatial position refers to: the most
// recent object of an explicitly named kind, else the most recent object of
// any kind.
func resolveReference(reference string, objects []model.BoardObject) (model.BoardObject, bool) {
	if len(objects) == 0 {
		return model.BoardObject{}, false
	}
	if reference == "" || reference == "last" {
		return objects[len(objects)-1], true
	}
	for i := len(objects) - 1; i >= 0; i-- {
		if matchesKind(objects[i], reference) {
			return objects[i], true
		}
	}
	return objects[len(objects)-1], true
}

// matchesKind treats a closed pen path as a triangle; every other reference
// name maps straight onto a shape kind.
func matchesKind(obj model.BoardObject, reference string) bool {
	if reference == "triangle" {
		pen, ok := obj.Data.(*model.PenData)
		return ok && pen.Closed()
	}
	return string(obj.Kind) == reference
}

func offsetAnchor(ref geometry.Box, position model.CommandPosition, w, h float64) model.Point {
	center := ref.Center()
	switch position {
	case model.PositionBelow:
		return model.Point{X: center.X, Y: ref.Bottom() + Spacing + h/2}
	case model.PositionAbove:
		return model.Point{X: center.X, Y: ref.Y - Spacing - h/2}
	case model.PositionRight:
		return model.Point{X: ref.Right() + Spacing + w/2, Y: center.Y}
	case model.PositionLeft:
		return model.Point{X: ref.X - Spacing - w/2, Y: center.Y}
	default:
		return center
	}
}

func nominalSize(shapeType string) (float64, float64) {
	if shapeType == "text" {
		return defaultTextWidth, defaultFontSize
	}
	return BaseSize, BaseSize
}

// newShape builds one object of the requested type centered on a point.
// Triangle has no native kind: it is synthesized as a closed 4-point pen
// path inscribed in a BaseSize square.
func newShape(shapeType string, center model.Point, textContent string) model.BoardObject {
	half := BaseSize / 2
	switch shapeType {
	case "triangle":
		apex := model.Point{X: center.X, Y: center.Y - half}
		return model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindPen,
			Data: &model.PenData{
				Points: []model.Point{
					apex,
					{X: center.X - half, Y: center.Y + half},
					{X: center.X + half, Y: center.Y + half},
					apex,
				},
				Style: defaultStyle,
			},
		}
	case "circle":
		return model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindCircle,
			Data: &model.CircleData{X: center.X, Y: center.Y, Radius: half, Style: defaultStyle},
		}
	case "arrow":
		return model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindArrow,
			Data: &model.ArrowData{
				Points: []model.Point{
					{X: center.X - half, Y: center.Y},
					{X: center.X + half, Y: center.Y},
				},
				Style: defaultStyle,
			},
		}
	case "text":
		content := textContent
		if content == "" {
			content = "Text"
		}
		return model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindText,
			Data: &model.TextData{
				X:        center.X - defaultTextWidth/2,
				Y:        center.Y - defaultFontSize/2,
				Text:     content,
				FontSize: defaultFontSize,
				Style:    defaultStyle,
			},
		}
	default:
		return model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindRectangle,
			Data: &model.RectangleData{
				X:      center.X - half,
				Y:      center.Y - half,
				Width:  BaseSize,
				Height: BaseSize,
				Style:  defaultStyle,
			},
		}
	}
}
