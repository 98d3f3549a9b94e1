package server

import (
	"fmt"
	"net/http"
	"time"

	"siren/pkg/logging"
)

// heartbeatInterval is the fixed period between heartbeats on the event
// stream.
const heartbeatInterval = 30 * time.Second

// handleEvents serves GET /mcp as a long-lived event stream. A keep-alive
// marker is written on connect, then a heartbeat on a fixed interval. The
// ticker is tied to the request context so it stops when the peer
// disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	logging.Debug("Server", "Event stream opened from %s", r.RemoteAddr)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logging.Debug("Server", "Event stream closed from %s", r.RemoteAddr)
			return
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
