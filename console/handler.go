package console

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/voicedoc/auth/authctx"
	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/event"
	"github.com/kbukum/voicedoc/identity"
	"github.com/kbukum/voicedoc/logger"
	"github.com/kbukum/voicedoc/recording"
	"github.com/kbukum/voicedoc/server"
	"github.com/kbukum/voicedoc/server/middleware"
	"github.com/kbukum/voicedoc/settings"
	"github.com/kbukum/voicedoc/sse"
)

// Identity is the identity provider plus token verification for the
// bearer middleware.
type Identity interface {
	identity.Provider
	Verify(token string) (*identity.Claims, error)
}

// Recorder is the recording pipeline as seen by the console.
type Recorder interface {
	Snapshot() recording.Snapshot
	Start(ctx context.Context) error
	Stop(ctx context.Context) (<-chan recording.Snapshot, error)
	Reset() error
	Subscribe(fn func(recording.Snapshot)) *event.Subscription
}

// Handler serves the console JSON API and event stream.
type Handler struct {
	identity Identity
	settings *settings.Store
	recorder Recorder
	hub      *sse.Hub
	log      *logger.Logger

	mu   sync.Mutex
	subs []*event.Subscription
}

// New creates a Handler. Call Bridge to forward pipeline and session
// events to the hub.
func New(id Identity, st *settings.Store, rec Recorder, hub *sse.Hub, log *logger.Logger) *Handler {
	return &Handler{identity: id, settings: st, recorder: rec, hub: hub, log: log.WithComponent("console")}
}

// Routes registers the /api routes on r. Register and login are rate
// limited to loginRate requests per minute per client and need no token.
func (h *Handler) Routes(r gin.IRouter, loginRate int) {
	api := r.Group("/api")

	public := api.Group("/auth", middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: loginRate}))
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)

	authed := api.Group("", middleware.Auth(middleware.AuthConfig{
		TokenValidator: func(token string) (any, error) { return h.identity.Verify(token) },
		QueryParam:     "access_token",
	}))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/session", h.Session)

	authed.GET("/config", h.GetConfig)
	authed.PUT("/config", h.PutConfig)
	authed.DELETE("/config", h.DeleteConfig)

	authed.GET("/recording", h.GetRecording)
	authed.POST("/recording/start", h.StartRecording)
	authed.POST("/recording/stop", h.StopRecording)
	authed.POST("/recording/reset", h.ResetRecording)

	authed.GET("/events", h.Events)
}

// Bridge forwards every recording snapshot and session change to the hub.
func (h *Handler) Bridge() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs,
		h.recorder.Subscribe(func(s recording.Snapshot) {
			h.broadcast(sse.Event{Type: sse.EventTypeRecording, Data: s})
		}),
		h.identity.OnSessionChange(func(e identity.Event) {
			h.broadcast(sse.Event{Type: sse.EventTypeSession, Data: e})
		}),
	)
}

// Close drops the Bridge subscriptions.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		s.Unsubscribe()
	}
	h.subs = nil
}

func (h *Handler) broadcast(e sse.Event) {
	if err := h.hub.Broadcast(e); err != nil {
		h.log.Warn("event not broadcast", logger.ErrorFields(e.Type, err))
	}
}

// bind decodes the JSON body into v.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "request body must be a JSON object"))
		return false
	}
	return true
}

func claims(c *gin.Context) *identity.Claims {
	cl, _ := authctx.Get[*identity.Claims](c.Request.Context())
	return cl
}

func streamID(c *gin.Context) string {
	if cl := claims(c); cl != nil {
		return "user:" + cl.Subject + ":" + uuid.NewString()
	}
	return "anonymous:" + uuid.NewString()
}
