// Package session is the client side of the sync protocol: an explicitly
// owned connection manager plus the single event loop that serializes every
// document mutation for one open board. Local edits, inbound relay events
// and AI results all funnel through the same loop, so no two mutations from
// one client are ever concurrent.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/board"
	"github.com/inkboard/inkboard/internal/hub"
	"github.com/inkboard/inkboard/internal/interpret"
	"github.com/inkboard/inkboard/internal/model"
	"github.com/inkboard/inkboard/internal/suggest"
)

// Seed is the initial board state fetched over REST before the socket opens.
type Seed struct {
	BoardID string
	UserID  string
	Name    string
	Objects []model.BoardObject
	Version int64
}

// pendingText is the two-phase text entry state: a position is armed first
// and the object is only committed when the text arrives. There is never a
// blocking prompt on the event loop.
type pendingText struct {
	at model.Point
}

type Session struct {
	conn     *websocket.Conn
	boardID  string
	userID   string
	name     string
	viewport interpret.Viewport

	doc     *board.Document
	history *board.History
	peers   map[string]model.Presence
	pending *pendingText

	calls     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the hub, announces the join and starts the event loop.
// The returned session owns the connection; Close releases it.
func Dial(ctx context.Context, wsURL string, seed Seed) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	s := &Session{
		conn:     conn,
		boardID:  seed.BoardID,
		userID:   seed.UserID,
		name:     seed.Name,
		viewport: interpret.DefaultViewport,
		doc:      board.NewDocument(seed.Objects, seed.Version),
		history:  board.NewHistory(seed.Objects),
		peers:    make(map[string]model.Presence),
		calls:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
	msg, err := hub.Encode(hub.EventJoinBoard, hub.JoinBoardPayload{
		BoardID: seed.BoardID,
		UserID:  seed.UserID,
		Name:    seed.Name,
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		_ = conn.Close()
		return nil, err
	}
	go s.loop()
	go s.readLoop()
	return s, nil
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// SetViewport changes where reference-less shapes land.
func (s *Session) SetViewport(vp interpret.Viewport) {
	s.do(func() { s.viewport = vp })
}

// loop is the session's only mutator. Every exported method schedules a
// closure here and waits for it.
func (s *Session) loop() {
	for {
		select {
		case fn := <-s.calls:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Session) do(fn func()) {
	ran := make(chan struct{})
	select {
	case s.calls <- func() { fn(); close(ran) }:
	case <-s.done:
		return
	}
	select {
	case <-ran:
	case <-s.done:
	}
}

// readLoop feeds inbound relay events into the event loop. A read error ends
// the session: missed broadcasts are simply lost, convergence is eventual.
func (s *Session) readLoop() {
	defer s.Close()
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var env hub.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		s.do(func() { s.handleEvent(env) })
	}
}

func (s *Session) handleEvent(env hub.Envelope) {
	switch env.Type {
	case hub.EventUsersList:
		var payload hub.UsersListPayload
		if json.Unmarshal(env.Data, &payload) != nil {
			return
		}
		s.peers = make(map[string]model.Presence, len(payload.Users))
		for _, user := range payload.Users {
			s.peers[user.UserID] = user
		}
	case hub.EventUserJoined:
		var payload hub.UserEventPayload
		if json.Unmarshal(env.Data, &payload) != nil {
			return
		}
		s.peers[payload.UserID] = model.Presence{UserID: payload.UserID, Name: payload.Name}
	case hub.EventUserLeft:
		var payload hub.UserEventPayload
		if json.Unmarshal(env.Data, &payload) != nil {
			return
		}
		delete(s.peers, payload.UserID)
	case hub.EventCursorMoved:
		var payload hub.CursorMovedPayload
		if json.Unmarshal(env.Data, &payload) != nil {
			return
		}
		peer := s.peers[payload.UserID]
		peer.UserID = payload.UserID
		cursor := payload.Cursor
		peer.Cursor = &cursor
		s.peers[payload.UserID] = peer
	case hub.EventBoardUpdated:
		var payload hub.BoardUpdatedPayload
		if json.Unmarshal(env.Data, &payload) != nil {
			return
		}
		var objects []model.BoardObject
		if json.Unmarshal(payload.Objects, &objects) != nil {
			return
		}
		// Full-snapshot overwrite: whatever arrived last wins locally,
		// regardless of our own version counter.
		s.doc.Overwrite(objects, payload.Version)
	}
}

// --- reads ---

func (s *Session) Objects() []model.BoardObject {
	var out []model.BoardObject
	s.do(func() { out = model.CloneObjects(s.doc.Objects()) })
	return out
}

func (s *Session) Version() int64 {
	var v int64
	s.do(func() { v = s.doc.Version() })
	return v
}

func (s *Session) Peers() []model.Presence {
	var out []model.Presence
	s.do(func() {
		out = make([]model.Presence, 0, len(s.peers))
		for _, p := range s.peers {
			out = append(out, p)
		}
	})
	return out
}

// --- local mutations (commit path: document, history, broadcast) ---

func (s *Session) CreateObjects(objs ...model.BoardObject) {
	if len(objs) == 0 {
		return
	}
	s.do(func() {
		s.doc.CreateAll(objs)
		s.commitLocked()
	})
}

func (s *Session) DeleteObject(id string) bool {
	var ok bool
	s.do(func() {
		if ok = s.doc.DeleteByID(id); ok {
			s.commitLocked()
		}
	})
	return ok
}

func (s *Session) UpdateGeometry(id string, patch board.GeometryPatch) bool {
	var ok bool
	s.do(func() {
		if ok = s.doc.UpdateGeometry(id, patch); ok {
			s.commitLocked()
		}
	})
	return ok
}

// RunPrompt feeds a prompt through the rule-based interpreter. It reports
// false when no shape keyword was recognized, which is the caller's cue to
// consult the AI collaborator and hand the result to ApplyCommands.
func (s *Session) RunPrompt(prompt string) bool {
	var handled bool
	s.do(func() {
		cmd := interpret.Interpret(prompt, s.doc.Objects())
		if cmd == nil {
			return
		}
		objs := interpret.Build(cmd, s.doc.Objects(), s.viewport)
		if len(objs) == 0 {
			return
		}
		s.doc.CreateAll(objs)
		s.commitLocked()
		handled = true
	})
	return handled
}

// ApplyCommands materializes structured create_shape commands, one commit
// per command so each is individually undoable.
func (s *Session) ApplyCommands(cmds []model.ShapeCommand) int {
	created := 0
	s.do(func() {
		for i := range cmds {
			objs := interpret.Build(&cmds[i], s.doc.Objects(), s.viewport)
			if len(objs) == 0 {
				continue
			}
			s.doc.CreateAll(objs)
			s.commitLocked()
			created += len(objs)
		}
	})
	return created
}

// ApplySuggestion applies an AI suggestion to the most recent object. A
// failed apply leaves document and version untouched.
func (s *Session) ApplySuggestion(sugg model.Suggestion) (model.BoardObject, error) {
	var (
		obj model.BoardObject
		err error
	)
	s.do(func() {
		obj, err = suggest.Apply(sugg, s.doc)
		if err != nil {
			return
		}
		s.commitLocked()
	})
	return obj, err
}

// Undo rolls the document back one snapshot and re-broadcasts so remote
// peers converge; the restored state is not pushed onto history again.
func (s *Session) Undo() bool {
	var ok bool
	s.do(func() {
		var snapshot []model.BoardObject
		if snapshot, ok = s.history.Undo(); !ok {
			return
		}
		s.doc.Restore(snapshot)
		s.broadcastLocked()
	})
	return ok
}

func (s *Session) Redo() bool {
	var ok bool
	s.do(func() {
		var snapshot []model.BoardObject
		if snapshot, ok = s.history.Redo(); !ok {
			return
		}
		s.doc.Restore(snapshot)
		s.broadcastLocked()
	})
	return ok
}

// --- two-phase text entry ---

func (s *Session) BeginTextEntry(x, y float64) {
	s.do(func() { s.pending = &pendingText{at: model.Point{X: x, Y: y}} })
}

func (s *Session) CancelTextEntry() {
	s.do(func() { s.pending = nil })
}

// CompleteTextEntry commits the armed text entry. Completing with no pending
// entry or empty text is a no-op.
func (s *Session) CompleteTextEntry(text string) bool {
	var ok bool
	s.do(func() {
		if s.pending == nil || text == "" {
			return
		}
		at := s.pending.at
		s.pending = nil
		s.doc.Create(model.BoardObject{
			ID:   model.NewObjectID(),
			Kind: model.KindText,
			Data: &model.TextData{X: at.X, Y: at.Y, Text: text, FontSize: 16},
		})
		s.commitLocked()
		ok = true
	})
	return ok
}

// MoveCursor sends a best-effort cursor broadcast; failures are dropped.
func (s *Session) MoveCursor(x, y float64) {
	s.do(func() {
		msg, err := hub.Encode(hub.EventCursorMove, hub.CursorMovePayload{
			BoardID: s.boardID,
			Cursor:  model.Cursor{X: x, Y: y},
		})
		if err != nil {
			return
		}
		_ = s.conn.WriteMessage(websocket.TextMessage, msg)
	})
}

// commitLocked runs on the event loop after a document mutation: history
// push, then broadcast. The two stay outside the document model itself so
// the model can be exercised without side effects.
func (s *Session) commitLocked() {
	s.history.Commit(s.doc.Objects())
	s.broadcastLocked()
}

// broadcastLocked ships the full current snapshot. A write failure loses
// this broadcast; there is no retry queue.
func (s *Session) broadcastLocked() {
	objects, err := json.Marshal(s.doc.Objects())
	if err != nil {
		logutil.GetLogger(context.Background()).Error("encode snapshot failed", zap.Error(err))
		return
	}
	msg, err := hub.Encode(hub.EventBoardUpdate, hub.BoardUpdatePayload{
		BoardID: s.boardID,
		Objects: objects,
		Version: s.doc.Version(),
	})
	if err != nil {
		logutil.GetLogger(context.Background()).Error("encode board_update failed", zap.Error(err))
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		logutil.GetLogger(context.Background()).Warn("board_update broadcast lost", zap.Error(err))
	}
}
