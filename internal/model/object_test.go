package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardObject_WireEnvelope(t *testing.T) {
	obj := BoardObject{
		ID:   "obj-1",
		Kind: KindCircle,
		Data: &CircleData{X: 10, Y: 20, Radius: 5, Style: Style{Stroke: "#000"}},
	}
	raw, err := json.Marshal(obj)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"obj-1","type":"circle","data":{"x":10,"y":20,"radius":5,"stroke":"#000"}}`, string(raw))

	var decoded BoardObject
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, obj.ID, decoded.ID)
	require.Equal(t, obj.Kind, decoded.Kind)
	require.Equal(t, obj.Data, decoded.Data)
}

func TestBoardObject_UnknownKindRejected(t *testing.T) {
	var decoded BoardObject
	err := json.Unmarshal([]byte(`{"id":"x","type":"hexagon","data":{}}`), &decoded)
	require.Error(t, err)
}

func TestCloneObjects_Isolation(t *testing.T) {
	objs := []BoardObject{{
		ID:   "p",
		Kind: KindPen,
		Data: &PenData{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
	}}
	cloned := CloneObjects(objs)
	objs[0].Data.(*PenData).Points[0].X = 99
	require.Equal(t, 1.0, cloned[0].Data.(*PenData).Points[0].X)
}

func TestPenData_Closed(t *testing.T) {
	open := &PenData{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}
	require.False(t, open.Closed())

	closed := &PenData{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}
	require.True(t, closed.Closed())
}

func TestNewObjectID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewObjectID()
		require.False(t, seen[id])
		seen[id] = true
	}
}
