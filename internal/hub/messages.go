package hub

import (
	"encoding/json"

	"github.com/inkboard/inkboard/internal/model"
)

// Event names: the *_ed form is what the hub emits to the rest of the room
// in response to the bare form.
const (
	EventJoinBoard    = "join_board"
	EventUsersList    = "users_list"
	EventUserJoined   = "user_joined"
	EventUserLeft     = "user_left"
	EventCursorMove   = "cursor_move"
	EventCursorMoved  = "cursor_moved"
	EventBoardUpdate  = "board_update"
	EventBoardUpdated = "board_updated"
)

// Envelope is the wire frame for every hub message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type JoinBoardPayload struct {
	BoardID string `json:"board_id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
}

type UsersListPayload struct {
	Users []model.Presence `json:"users"`
}

type UserEventPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type CursorMovePayload struct {
	BoardID string       `json:"board_id"`
	Cursor  model.Cursor `json:"cursor"`
}

type CursorMovedPayload struct {
	UserID string       `json:"user_id"`
	Cursor model.Cursor `json:"cursor"`
}

// BoardUpdatePayload keeps the object list as raw JSON: the hub is a relay
// and forwards snapshots byte-for-byte, decoding them only for persistence.
type BoardUpdatePayload struct {
	BoardID string          `json:"board_id"`
	Objects json.RawMessage `json:"objects"`
	Version int64           `json:"version"`
}

type BoardUpdatedPayload struct {
	Objects json.RawMessage `json:"objects"`
	Version int64           `json:"version"`
}

func Encode(eventType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Data: data})
}
