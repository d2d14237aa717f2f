package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/inkboard/inkboard/internal/model"
)

type fakeSaver struct {
	mu      sync.Mutex
	boardID string
	objects []model.BoardObject
	version int64
	calls   int
}

func (f *fakeSaver) SaveSnapshot(ctx context.Context, boardID string, objects []model.BoardObject, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boardID = boardID
	f.objects = objects
	f.version = version
	f.calls++
	return nil
}

func (f *fakeSaver) snapshot() (string, int, int64, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.boardID, len(f.objects), f.version, f.calls
}

func newTestServer(t *testing.T, saver SnapshotSaver) (*Hub, string) {
	t.Helper()
	h := New(saver)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(h, w, r)
	}))
	t.Cleanup(server.Close)
	return h, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialAndJoin(t *testing.T, url, boardID, userID, name string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	msg, err := Encode(EventJoinBoard, JoinBoardPayload{BoardID: boardID, UserID: userID, Name: name})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestHub_JoinRosterAndPresence(t *testing.T) {
	h, url := newTestServer(t, nil)

	alice := dialAndJoin(t, url, "board-1", "u1", "Alice")
	env := readEvent(t, alice)
	require.Equal(t, EventUsersList, env.Type)
	var roster UsersListPayload
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	require.Empty(t, roster.Users)

	bob := dialAndJoin(t, url, "board-1", "u2", "Bob")
	env = readEvent(t, bob)
	require.Equal(t, EventUsersList, env.Type)
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	require.Len(t, roster.Users, 1)
	require.Equal(t, "u1", roster.Users[0].UserID)

	env = readEvent(t, alice)
	require.Equal(t, EventUserJoined, env.Type)
	var joined UserEventPayload
	require.NoError(t, json.Unmarshal(env.Data, &joined))
	require.Equal(t, "u2", joined.UserID)
	require.Equal(t, "Bob", joined.Name)

	require.Eventually(t, func() bool { return h.RoomSize("board-1") == 2 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, bob.Close())
	env = readEvent(t, alice)
	require.Equal(t, EventUserLeft, env.Type)
	var left UserEventPayload
	require.NoError(t, json.Unmarshal(env.Data, &left))
	require.Equal(t, "u2", left.UserID)

	require.Eventually(t, func() bool { return h.RoomSize("board-1") == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestHub_CursorRelay(t *testing.T) {
	_, url := newTestServer(t, nil)

	alice := dialAndJoin(t, url, "board-1", "u1", "Alice")
	readEvent(t, alice) // users_list
	bob := dialAndJoin(t, url, "board-1", "u2", "Bob")
	readEvent(t, bob)   // users_list
	readEvent(t, alice) // user_joined

	msg, err := Encode(EventCursorMove, CursorMovePayload{
		BoardID: "board-1",
		Cursor:  model.Cursor{X: 12, Y: 34},
	})
	require.NoError(t, err)
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, msg))

	env := readEvent(t, alice)
	require.Equal(t, EventCursorMoved, env.Type)
	var moved CursorMovedPayload
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	require.Equal(t, "u2", moved.UserID)
	require.Equal(t, model.Cursor{X: 12, Y: 34}, moved.Cursor)
}

func TestHub_BoardUpdateRelayAndPersist(t *testing.T) {
	saver := &fakeSaver{}
	_, url := newTestServer(t, saver)

	alice := dialAndJoin(t, url, "board-1", "u1", "Alice")
	readEvent(t, alice)
	bob := dialAndJoin(t, url, "board-1", "u2", "Bob")
	readEvent(t, bob)
	readEvent(t, alice)

	objects := []model.BoardObject{
		{ID: "a", Kind: model.KindRectangle, Data: &model.RectangleData{X: 0, Y: 0, Width: 10, Height: 10}},
		{ID: "b", Kind: model.KindCircle, Data: &model.CircleData{X: 5, Y: 5, Radius: 2}},
		{ID: "c", Kind: model.KindText, Data: &model.TextData{X: 1, Y: 1, Text: "hi"}},
	}
	raw, err := json.Marshal(objects)
	require.NoError(t, err)
	msg, err := Encode(EventBoardUpdate, BoardUpdatePayload{BoardID: "board-1", Objects: raw, Version: 5})
	require.NoError(t, err)
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, msg))

	env := readEvent(t, alice)
	require.Equal(t, EventBoardUpdated, env.Type)
	var updated BoardUpdatedPayload
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, int64(5), updated.Version)
	var relayed []model.BoardObject
	require.NoError(t, json.Unmarshal(updated.Objects, &relayed))
	require.Len(t, relayed, 3)
	require.Equal(t, "c", relayed[2].ID)

	boardID, count, version, calls := saver.snapshot()
	require.Equal(t, "board-1", boardID)
	require.Equal(t, 3, count)
	require.Equal(t, int64(5), version)
	require.Equal(t, 1, calls)
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	_, url := newTestServer(t, nil)

	alice := dialAndJoin(t, url, "board-1", "u1", "Alice")
	readEvent(t, alice)
	carol := dialAndJoin(t, url, "board-2", "u3", "Carol")
	env := readEvent(t, carol)
	var roster UsersListPayload
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	require.Empty(t, roster.Users)

	// Nothing from another room reaches alice.
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := alice.ReadMessage()
	require.Error(t, err)
}
