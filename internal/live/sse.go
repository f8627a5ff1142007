package live

import (
	"fmt"
	"net/http"
)

// ServeSSE handles a Server-Sent Events subscription. Each frame is one
// `data:` line carrying the JSON-encoded event. The connection stays open
// until the client goes away or the hub disconnects the subscriber.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // for nginx

	sub := h.Connect()
	defer sub.Close()

	flusher.Flush()

	for {
		select {
		case frame, ok := <-sub.Events():
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
