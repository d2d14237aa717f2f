// Package board holds the in-memory document model and its linear history.
// A Document belongs to exactly one open board session; all mutations come
// from that session's event loop, so the type itself is not locked.
package board

import "github.com/inkboard/inkboard/internal/model"

// Document is the ordered object list plus a monotonic version counter.
// Order is creation order: it governs z-order and "most recent" semantics,
// so mutations append or filter but never re-sort. The counter increases on
// every committed local mutation; it is not a vector clock, and two peers
// can reach the same version number independently.
type Document struct {
	objects []model.BoardObject
	version int64
}

func NewDocument(objects []model.BoardObject, version int64) *Document {
	return &Document{objects: model.CloneObjects(objects), version: version}
}

// Objects returns the current object list. The slice is rebuilt on every
// mutation, so holders of a previous return value never observe changes.
func (d *Document) Objects() []model.BoardObject {
	return d.objects
}

func (d *Document) Version() int64 {
	return d.version
}

func (d *Document) Len() int {
	return len(d.objects)
}

// Last returns the most recently created object, the canonical reference
// target for interpreter and suggestion operations.
func (d *Document) Last() (model.BoardObject, bool) {
	if len(d.objects) == 0 {
		return model.BoardObject{}, false
	}
	return d.objects[len(d.objects)-1], true
}

func (d *Document) FindByID(id string) (model.BoardObject, bool) {
	for _, obj := range d.objects {
		if obj.ID == id {
			return obj, true
		}
	}
	return model.BoardObject{}, false
}

// Create appends one object and bumps the version.
func (d *Document) Create(obj model.BoardObject) {
	d.CreateAll([]model.BoardObject{obj})
}

// CreateAll appends a batch of objects as a single committed mutation.
func (d *Document) CreateAll(objs []model.BoardObject) {
	if len(objs) == 0 {
		return
	}
	next := make([]model.BoardObject, 0, len(d.objects)+len(objs))
	next = append(next, d.objects...)
	next = append(next, objs...)
	d.objects = next
	d.version++
}

// ReplaceAll swaps in a new object list as one local mutation.
func (d *Document) ReplaceAll(objs []model.BoardObject) {
	d.objects = model.CloneObjects(objs)
	d.version++
}

// Overwrite adopts a remote snapshot wholesale, including its version. Used
// when a board_updated broadcast arrives: last update received wins.
func (d *Document) Overwrite(objs []model.BoardObject, version int64) {
	d.objects = model.CloneObjects(objs)
	d.version = version
}

// Restore swaps in a history snapshot. Undo and redo are committed local
// mutations, so the version still advances.
func (d *Document) Restore(objs []model.BoardObject) {
	d.objects = model.CloneObjects(objs)
	d.version++
}

// DeleteByID filters one object out, preserving the order of the rest.
func (d *Document) DeleteByID(id string) bool {
	idx := -1
	for i, obj := range d.objects {
		if obj.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	next := make([]model.BoardObject, 0, len(d.objects)-1)
	next = append(next, d.objects[:idx]...)
	next = append(next, d.objects[idx+1:]...)
	d.objects = next
	d.version++
	return true
}

// GeometryPatch updates position/size fields on drag or resize. Only the
// fields relevant to the target's kind are applied.
type GeometryPatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Radius *float64
	Points []model.Point
}

// UpdateGeometry applies a patch to one object, copy-on-write: the stored
// object is replaced with a patched clone, never mutated in place.
func (d *Document) UpdateGeometry(id string, patch GeometryPatch) bool {
	idx := -1
	for i, obj := range d.objects {
		if obj.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	obj := d.objects[idx].Clone()
	switch data := obj.Data.(type) {
	case *model.RectangleData:
		applyFloat(&data.X, patch.X)
		applyFloat(&data.Y, patch.Y)
		applyFloat(&data.Width, patch.Width)
		applyFloat(&data.Height, patch.Height)
	case *model.CircleData:
		applyFloat(&data.X, patch.X)
		applyFloat(&data.Y, patch.Y)
		applyFloat(&data.Radius, patch.Radius)
	case *model.TextData:
		applyFloat(&data.X, patch.X)
		applyFloat(&data.Y, patch.Y)
		applyFloat(&data.Width, patch.Width)
		applyFloat(&data.Height, patch.Height)
	case *model.PenData:
		if patch.Points != nil {
			data.Points = append([]model.Point(nil), patch.Points...)
		}
	case *model.ArrowData:
		if patch.Points != nil {
			data.Points = append([]model.Point(nil), patch.Points...)
		}
	default:
		return false
	}
	next := make([]model.BoardObject, len(d.objects))
	copy(next, d.objects)
	next[idx] = obj
	d.objects = next
	d.version++
	return true
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
