package sse

import (
	"encoding/json"
	"fmt"
)

// Event types streamed to console clients.
const (
	// EventTypeConnected is sent once when a client connects.
	EventTypeConnected = "connected"
	// EventTypeRecording carries a recording pipeline snapshot.
	EventTypeRecording = "recording"
	// EventTypeSession carries a sign-in or sign-out event.
	EventTypeSession = "session"
)

// Event is one named server-sent event with a JSON payload.
type Event struct {
	Type string
	Data any
}

// Encode renders e as an SSE frame:
//
//	event: recording
//	data: {"state":"processing",...}
func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", e.Type, data), nil
}

// ConnectedEvent is the payload of the connected event.
type ConnectedEvent struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId,omitempty"`
}

// Broadcaster sends events to connected clients. Handlers depend on it
// rather than on Hub.
type Broadcaster interface {
	// Broadcast sends e to every client.
	Broadcast(e Event) error
	// BroadcastToPattern sends e to clients whose ID matches the glob
	// pattern, e.g. "user:3f2a*".
	BroadcastToPattern(pattern string, e Event) error
}
