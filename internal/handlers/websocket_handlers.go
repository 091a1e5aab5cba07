package handlers

import (
	"net/http"

	"duochat/internal/relay"
	"duochat/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	engine   *relay.Engine
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(engine *relay.Engine) *WebSocketHandlers {
	return &WebSocketHandlers{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket upgrades the connection and hands it to the relay engine
// unauthenticated. Identity is established in-band by the first auth frame,
// not at the handshake.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := relay.NewClient(h.engine, conn)
	go client.WritePump()
	go client.ReadPump()
}
