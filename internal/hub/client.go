package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket connection attached to at most one board room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	dropOnce sync.Once

	// Owned by the hub under its lock once the client joins a room.
	boardID string
	userID  string
	name    string
}

// ServeWS upgrades the request and starts the connection's pumps.
func ServeWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logutil.GetLogger(r.Context()).Error("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	go c.writePump()
	go c.readPump()
}

// enqueue hands a message to the write pump without blocking; a client that
// cannot keep up is dropped instead of buffered indefinitely.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.drop()
	}
}

func (c *Client) drop() {
	c.dropOnce.Do(func() {
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.drop()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(raw)
	}
}

// dispatch routes one inbound frame. Unknown or malformed frames are logged
// and ignored; they never terminate the connection.
func (c *Client) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logutil.GetLogger(context.Background()).Warn("drop malformed frame", zap.Error(err))
		return
	}
	switch env.Type {
	case EventJoinBoard:
		var payload JoinBoardPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.BoardID == "" {
			return
		}
		c.hub.join(c, payload)
	case EventCursorMove:
		var payload CursorMovePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		c.hub.cursorMove(c, payload)
	case EventBoardUpdate:
		var payload BoardUpdatePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		c.hub.boardUpdate(c, payload)
	default:
		logutil.GetLogger(context.Background()).Debug("ignore unknown event", zap.String("type", env.Type))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.drop()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
