package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inkboard/inkboard/internal/hub"
)

// WSHandler upgrades /ws connections and hands them to the relay hub. The
// join_board message carries the identity, so the route itself is
// unauthenticated.
type WSHandler struct {
	hub *hub.Hub
}

func NewWSHandler(h *hub.Hub) *WSHandler {
	return &WSHandler{hub: h}
}

func (h *WSHandler) Serve(c *gin.Context) {
	hub.ServeWS(h.hub, c.Writer, c.Request)
}
