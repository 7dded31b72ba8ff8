package console

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicedoc/errors"
	"github.com/kbukum/voicedoc/identity"
	"github.com/kbukum/voicedoc/server"
)

// Register creates an account. It does not sign in.
func (h *Handler) Register(c *gin.Context) {
	var creds identity.Credentials
	if !bind(c, &creds) {
		return
	}
	if err := h.identity.Register(c.Request.Context(), creds.Email, creds.Password); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, gin.H{"email": creds.Email})
}

// Login authenticates and returns the session with its access token.
func (h *Handler) Login(c *gin.Context) {
	var creds identity.Credentials
	if !bind(c, &creds) {
		return
	}
	if err := h.identity.Authenticate(c.Request.Context(), creds.Email, creds.Password); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, h.identity.CurrentSession())
}

// Logout ends the session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.identity.SignOut(c.Request.Context()); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// Session returns the current session without its token.
func (h *Handler) Session(c *gin.Context) {
	s := h.identity.CurrentSession()
	if s == nil {
		server.RespondWithError(c, errors.Unauthorized(""))
		return
	}
	s.Token = ""
	server.RespondOK(c, s)
}
