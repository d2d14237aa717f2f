package model

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

type ShapeKind string

const (
	KindPen       ShapeKind = "pen"
	KindRectangle ShapeKind = "rectangle"
	KindCircle    ShapeKind = "circle"
	KindArrow     ShapeKind = "arrow"
	KindText      ShapeKind = "text"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style carries the shared stroke/fill attributes every shape kind renders with.
type Style struct {
	Stroke      string  `json:"stroke,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// ShapeData is the per-kind payload of a BoardObject. Each kind carries only
// its own fields; Clone returns a structural copy so snapshots never share
// mutable state.
type ShapeData interface {
	Kind() ShapeKind
	Clone() ShapeData
}

type PenData struct {
	Points []Point `json:"points"`
	Style
}

func (d *PenData) Kind() ShapeKind { return KindPen }

func (d *PenData) Clone() ShapeData {
	cp := *d
	cp.Points = append([]Point(nil), d.Points...)
	return &cp
}

// Closed reports whether the path returns to its starting point. A closed
// 4-point pen path is how triangles are represented on the board.
func (d *PenData) Closed() bool {
	if len(d.Points) < 4 {
		return false
	}
	return d.Points[0] == d.Points[len(d.Points)-1]
}

type RectangleData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style
}

func (d *RectangleData) Kind() ShapeKind { return KindRectangle }

func (d *RectangleData) Clone() ShapeData {
	cp := *d
	return &cp
}

type CircleData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Style
}

func (d *CircleData) Kind() ShapeKind { return KindCircle }

func (d *CircleData) Clone() ShapeData {
	cp := *d
	return &cp
}

type ArrowData struct {
	Points []Point `json:"points"`
	Style
}

func (d *ArrowData) Kind() ShapeKind { return KindArrow }

func (d *ArrowData) Clone() ShapeData {
	cp := *d
	cp.Points = append([]Point(nil), d.Points...)
	return &cp
}

type TextData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Style
}

func (d *TextData) Kind() ShapeKind { return KindText }

func (d *TextData) Clone() ShapeData {
	cp := *d
	return &cp
}

// BoardObject is one element of a board document. Wire shape is an
// `{id, type, data}` triple; in memory the data payload is a tagged union.
type BoardObject struct {
	ID   string
	Kind ShapeKind
	Data ShapeData
}

func (o BoardObject) Clone() BoardObject {
	cp := o
	if o.Data != nil {
		cp.Data = o.Data.Clone()
	}
	return cp
}

func CloneObjects(objects []BoardObject) []BoardObject {
	if objects == nil {
		return nil
	}
	out := make([]BoardObject, 0, len(objects))
	for _, obj := range objects {
		out = append(out, obj.Clone())
	}
	return out
}

type objectEnvelope struct {
	ID   string          `json:"id"`
	Type ShapeKind       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (o BoardObject) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(objectEnvelope{ID: o.ID, Type: o.Kind, Data: data})
}

func (o *BoardObject) UnmarshalJSON(raw []byte) error {
	var env objectEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	var data ShapeData
	switch env.Type {
	case KindPen:
		data = &PenData{}
	case KindRectangle:
		data = &RectangleData{}
	case KindCircle:
		data = &CircleData{}
	case KindArrow:
		data = &ArrowData{}
	case KindText:
		data = &TextData{}
	default:
		return fmt.Errorf("unknown shape kind: %q", env.Type)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return err
		}
	}
	o.ID = env.ID
	o.Kind = env.Type
	o.Data = data
	return nil
}

var objectSeq atomic.Int64

// NewObjectID builds a board-object id from the wall clock plus a local
// sequence number, so ids from concurrent creators do not collide.
func NewObjectID() string {
	return fmt.Sprintf("obj-%d-%d", time.Now().UnixMilli(), objectSeq.Add(1))
}
