package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-host deployment, no cross-origin concerns
	},
}

const writeTimeout = 10 * time.Second

// ServeWs handles a WebSocket subscription. The frames are identical to the
// SSE payloads; only the framing differs.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	sub := h.Connect()

	go writePump(conn, sub)
	go readPump(conn, sub)
}

// writePump forwards hub frames to the websocket connection
func writePump(conn *websocket.Conn, sub *Subscriber) {
	defer conn.Close()

	for frame := range sub.Events() {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			sub.Close()
			return
		}
	}

	// Hub closed the channel
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection to detect the client going away
func readPump(conn *websocket.Conn, sub *Subscriber) {
	defer func() {
		sub.Close()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
