// Package sse streams console events over Server-Sent Events.
//
// A Hub owns the set of connected clients and fans encoded frames out to
// them by glob pattern on the client ID. ServeSSE is the per-request loop.
//
//	hub := sse.NewHub(log)
//	go hub.Run()
//	_ = hub.Broadcast(sse.Event{Type: sse.EventTypeRecording, Data: snapshot})
package sse
