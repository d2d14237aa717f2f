// Package hub is the room-scoped relay behind /ws. It fans presence, cursor
// and document-update events out to the other members of a board room. The
// hub never holds authoritative document state: it forwards snapshots as
// received and the last update a peer sees wins locally. There is no
// cross-sender ordering or merging.
package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/model"
)

// SnapshotSaver persists board_update snapshots as they pass through the
// relay. Persistence failures are logged and never block the fan-out.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, boardID string, objects []model.BoardObject, version int64) error
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]*model.Presence
	saver SnapshotSaver
}

func New(saver SnapshotSaver) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]*model.Presence),
		saver: saver,
	}
}

// RoomSize reports the number of live connections in a board room.
func (h *Hub) RoomSize(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[boardID])
}

func (h *Hub) join(c *Client, payload JoinBoardPayload) {
	h.leave(c)

	h.mu.Lock()
	room := h.rooms[payload.BoardID]
	if room == nil {
		room = make(map[*Client]*model.Presence)
		h.rooms[payload.BoardID] = room
	}
	c.boardID = payload.BoardID
	c.userID = payload.UserID
	c.name = payload.Name
	room[c] = &model.Presence{UserID: payload.UserID, Name: payload.Name, Cursor: &model.Cursor{}}

	users := make([]model.Presence, 0, len(room)-1)
	for other, presence := range room {
		if other == c {
			continue
		}
		users = append(users, *presence)
	}
	h.mu.Unlock()

	// The joiner gets the current roster only; missed document updates are
	// never replayed.
	if msg, err := Encode(EventUsersList, UsersListPayload{Users: users}); err == nil {
		c.enqueue(msg)
	}
	h.broadcast(payload.BoardID, c, EventUserJoined, UserEventPayload{UserID: payload.UserID, Name: payload.Name})

	logutil.GetLogger(context.Background()).Info("client joined board",
		zap.String("board_id", payload.BoardID), zap.String("user_id", payload.UserID))
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	boardID := c.boardID
	room := h.rooms[boardID]
	if room == nil {
		h.mu.Unlock()
		return
	}
	if _, ok := room[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, boardID)
	}
	userID, name := c.userID, c.name
	c.boardID = ""
	h.mu.Unlock()

	h.broadcast(boardID, c, EventUserLeft, UserEventPayload{UserID: userID, Name: name})

	logutil.GetLogger(context.Background()).Info("client left board",
		zap.String("board_id", boardID), zap.String("user_id", userID))
}

// cursorMove updates the sender's presence and relays the position to the
// rest of the room. Delivery is best effort; a dropped cursor event is never
// retried.
func (h *Hub) cursorMove(c *Client, payload CursorMovePayload) {
	h.mu.Lock()
	room := h.rooms[payload.BoardID]
	presence, ok := room[c]
	if !ok {
		h.mu.Unlock()
		return
	}
	cursor := payload.Cursor
	presence.Cursor = &cursor
	userID := presence.UserID
	h.mu.Unlock()

	h.broadcast(payload.BoardID, c, EventCursorMoved, CursorMovedPayload{UserID: userID, Cursor: payload.Cursor})
}

// boardUpdate persists the snapshot and relays it to the other room members.
// The hub does not sequence concurrent updates from different senders.
func (h *Hub) boardUpdate(c *Client, payload BoardUpdatePayload) {
	if h.saver != nil {
		var objects []model.BoardObject
		if err := json.Unmarshal(payload.Objects, &objects); err != nil {
			logutil.GetLogger(context.Background()).Warn("skip persisting undecodable snapshot",
				zap.String("board_id", payload.BoardID), zap.Error(err))
		} else if err := h.saver.SaveSnapshot(context.Background(), payload.BoardID, objects, payload.Version); err != nil {
			logutil.GetLogger(context.Background()).Error("persist board snapshot failed",
				zap.String("board_id", payload.BoardID), zap.Error(err))
		}
	}
	h.broadcast(payload.BoardID, c, EventBoardUpdated, BoardUpdatedPayload{
		Objects: payload.Objects,
		Version: payload.Version,
	})
}

// broadcast fans a message out to every room member except the sender. Sends
// never block: a client whose buffer is full is disconnected rather than
// stalling the room.
func (h *Hub) broadcast(boardID string, except *Client, eventType string, payload interface{}) {
	msg, err := Encode(eventType, payload)
	if err != nil {
		logutil.GetLogger(context.Background()).Error("encode broadcast failed",
			zap.String("event", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[boardID]))
	for member := range h.rooms[boardID] {
		if member != except {
			targets = append(targets, member)
		}
	}
	h.mu.RUnlock()

	for _, member := range targets {
		member.enqueue(msg)
	}
}
