package console

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicedoc/server"
	"github.com/kbukum/voicedoc/sse"
)

// GetRecording returns the pipeline snapshot.
func (h *Handler) GetRecording(c *gin.Context) {
	server.RespondOK(c, h.recorder.Snapshot())
}

// StartRecording opens the microphone.
func (h *Handler) StartRecording(c *gin.Context) {
	if err := h.recorder.Start(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.recorder.Snapshot())
}

// StopRecording ends the recording and answers 202 while transcription
// and delivery run. The outcome arrives on the event stream.
func (h *Handler) StopRecording(c *gin.Context) {
	if _, err := h.recorder.Stop(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondAccepted(c, h.recorder.Snapshot())
}

// ResetRecording clears a finished cycle.
func (h *Handler) ResetRecording(c *gin.Context) {
	if err := h.recorder.Reset(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.recorder.Snapshot())
}

// Events streams recording and session events, starting with the current
// snapshot.
func (h *Handler) Events(c *gin.Context) {
	opts := []sse.ClientOption{}
	if cl := claims(c); cl != nil {
		opts = append(opts, sse.WithUserID(cl.Subject))
	}
	if frame, err := sse.Encode(sse.Event{Type: sse.EventTypeRecording, Data: h.recorder.Snapshot()}); err == nil {
		opts = append(opts, sse.WithInitial(frame))
	}
	sse.ServeSSE(h.hub, c.Writer, c.Request, streamID(c), opts...)
}
