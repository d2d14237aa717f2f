// Package suggest maps AI suggestion records onto document mutations. Every
// successful apply is exactly one document commit, so the whole effect is
// undoable as a single step.
package suggest

import (
	"errors"
	"strings"

	"github.com/inkboard/inkboard/internal/board"
	"github.com/inkboard/inkboard/internal/geometry"
	"github.com/inkboard/inkboard/internal/model"
)

var (
	// ErrNoTarget means the board has no object to act on (or the target has
	// no usable geometry). The document is left untouched.
	ErrNoTarget = errors.New("no target object")
	// ErrUnsupported means the suggestion type is unknown and its title gave
	// no hint either.
	ErrUnsupported = errors.New("unsupported suggestion type")
)

const annotationFontSize = 16

// Apply mutates the document according to the suggestion, targeting the most
// recently created object. It returns the newly created object so the caller
// can select it.
func Apply(sugg model.Suggestion, doc *board.Document) (model.BoardObject, error) {
	target, ok := doc.Last()
	if !ok {
		return model.BoardObject{}, ErrNoTarget
	}
	box, ok := geometry.Bounds(target)
	if !ok {
		return model.BoardObject{}, ErrNoTarget
	}
	switch resolveType(sugg) {
	case model.SuggestionShapeClean:
		return applyShapeClean(doc, target, box), nil
	case model.SuggestionAnnotation:
		return applyAnnotation(doc, box), nil
	case model.SuggestionDiagramImprovement:
		return applyDiagramImprovement(doc, box), nil
	default:
		return model.BoardObject{}, ErrUnsupported
	}
}

// resolveType falls back to title keywords when the type field is unknown.
func resolveType(sugg model.Suggestion) model.SuggestionType {
	switch sugg.Type {
	case model.SuggestionShapeClean, model.SuggestionAnnotation, model.SuggestionDiagramImprovement:
		return sugg.Type
	}
	title := strings.ToLower(sugg.Title)
	switch {
	case strings.Contains(title, "rectangle"):
		return model.SuggestionShapeClean
	case strings.Contains(title, "label"):
		return model.SuggestionAnnotation
	case strings.Contains(title, "flow"):
		return model.SuggestionDiagramImprovement
	}
	return ""
}

// applyShapeClean replaces the target with a borderless filled rectangle
// matching its bounding box, in one ReplaceAll commit so the new rectangle
// ends up as the most recent object.
func applyShapeClean(doc *board.Document, target model.BoardObject, box geometry.Box) model.BoardObject {
	clean := model.BoardObject{
		ID:   model.NewObjectID(),
		Kind: model.KindRectangle,
		Data: &model.RectangleData{
			X:      box.X,
			Y:      box.Y,
			Width:  box.W,
			Height: box.H,
			Style:  model.Style{Fill: "#e8eef7"},
		},
	}
	next := make([]model.BoardObject, 0, doc.Len())
	for _, obj := range doc.Objects() {
		if obj.ID != target.ID {
			next = append(next, obj)
		}
	}
	next = append(next, clean)
	doc.ReplaceAll(next)
	return clean
}

// applyAnnotation adds a centered text label over the target without
// removing it.
func applyAnnotation(doc *board.Document, box geometry.Box) model.BoardObject {
	center := box.Center()
	label := model.BoardObject{
		ID:   model.NewObjectID(),
		Kind: model.KindText,
		Data: &model.TextData{
			X:        center.X - 60,
			Y:        center.Y - annotationFontSize/2,
			Text:     "Label",
			FontSize: annotationFontSize,
			Style:    model.Style{Stroke: "#1e1e1e"},
		},
	}
	doc.Create(label)
	return label
}

// applyDiagramImprovement extends the target into a flow: a new box of the
// target's approximate size to its right plus an arrow between the centers.
func applyDiagramImprovement(doc *board.Document, box geometry.Box) model.BoardObject {
	const gap = 60
	next := model.BoardObject{
		ID:   model.NewObjectID(),
		Kind: model.KindRectangle,
		Data: &model.RectangleData{
			X:      box.Right() + gap,
			Y:      box.Y,
			Width:  box.W,
			Height: box.H,
			Style:  model.Style{Stroke: "#1e1e1e", StrokeWidth: 2},
		},
	}
	from := box.Center()
	to := model.Point{X: box.Right() + gap + box.W/2, Y: from.Y}
	connector := model.BoardObject{
		ID:   model.NewObjectID(),
		Kind: model.KindArrow,
		Data: &model.ArrowData{
			Points: []model.Point{from, to},
			Style:  model.Style{Stroke: "#1e1e1e", StrokeWidth: 2},
		},
	}
	doc.CreateAll([]model.BoardObject{next, connector})
	return next
}
