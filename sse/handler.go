package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/voicedoc/logger"
)

// KeepAliveInterval is how often a comment line is written to idle streams.
var KeepAliveInterval = 30 * time.Second

// ServeSSE streams events to one client until the request ends or the hub
// stops. Frames queued with WithInitial are written right after the
// connected event.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	log := hub.log.WithFields(logger.Fields("client_id", clientID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's WriteTimeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not clear write deadline", logger.ErrorFields("deadline", err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID, opts...)
	connected, err := Encode(Event{Type: EventTypeConnected, Data: ConnectedEvent{ClientID: clientID, UserID: client.UserID()}})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !hub.Register(client) {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(connected)
	flusher.Flush()
	log.Debug("client connected", logger.Fields("remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected")
			return

		case frame, ok := <-client.Events():
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				log.Debug("write failed", logger.ErrorFields("write", err))
				return
			}
			flusher.Flush()

		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}
